package main

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/internal/logging"
)

const previewSize = 600

// save exports cam to req.Path in the background, showing progress and then
// a preview of the written file.
func save(
	ctx context.Context,
	window *gtk.ApplicationWindow,
	req SaveRequest,
	cam camera.Camera,
) {
	ctx, cancel := WithErrorDialogCancelCause(window, ctx)
	defer CatchPanicToContext(cancel)

	progress := &export.Progress{}
	renderCtx, renderDone := context.WithCancel(ctx)
	_, err := NewProgressDialog(
		renderCtx, window, "Save Image",
		fmt.Sprintf("Saving %v", req.Path),
		progress,
		func() { cancel(context.Canceled) },
	)
	if err != nil {
		renderDone()
		cancel(err)
		return
	}

	log := logging.For("Save")
	log.Info("saving image", "path", req.Path, "width", req.Options.Width, "height", req.Options.Height)

	go func() {
		defer CatchPanicToContext(cancel)
		defer renderDone()

		err := export.SavePNG(ctx, req.Path, cam, req.Options, progress)
		if err != nil {
			cancel(err)
			return
		}
		log.Info("image saved", "path", req.Path)

		glib.IdleAdd(func() {
			showPreview(window, req.Path, image.Pt(req.Options.Width, req.Options.Height), cancel)
		})
	}()
}

func showPreview(window *gtk.ApplicationWindow, path string, size image.Point, cancel context.CancelCauseFunc) {
	app, err := window.GetApplication()
	if err != nil {
		cancel(err)
		return
	}

	preview, err := NewImageDialog(
		app, path, size,
		func() { cancel(nil) },
		func() {
			if err := os.Remove(path); err != nil {
				cancel(err)
				return
			}
			logging.For("Save").Info("image deleted", "path", path)
			cancel(nil)
		},
	)
	if err != nil {
		cancel(err)
		return
	}
	preview.Connect("destroy", func() {
		cancel(nil)
	})
	preview.ShowAll()
}
