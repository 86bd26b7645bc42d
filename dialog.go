package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
)

func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		err = fmt.Errorf("%w\n%v", err, string(debug.Stack()))
		if ctxCancel != nil {
			ctxCancel(err)
		}
	}
}

// WithErrorDialogCancelCause returns a context whose cancellation cause is
// shown in an error dialog, unless it is context.Canceled.
func WithErrorDialogCancelCause(parent *gtk.ApplicationWindow, ctx context.Context) (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	AttachErrorDialog(parent, ctx)
	return ctx, cancel
}

func AttachErrorDialog(parent *gtk.ApplicationWindow, ctx context.Context) {
	go func() {
		<-ctx.Done()
		err := context.Cause(ctx)
		if !errors.Is(err, context.Canceled) {
			logging.For("Dialog").Error("operation failed", "err", err)
			glib.IdleAdd(func() {
				NewErrorDialog(parent, err)
			})
		}
	}()
}

// errorTitle names the kind of failure for the dialog heading.
func errorTitle(err error) string {
	switch {
	case errors.Is(err, renderer.ErrCapabilityUnavailable):
		return "Renderer unavailable"
	case errors.Is(err, renderer.ErrResourceExhausted):
		return "Renderer out of memory"
	case errors.Is(err, renderer.ErrUnknownKind):
		return "Unknown renderer"
	case errors.Is(err, camera.ErrInvariantViolation):
		return "Invalid view"
	case errors.Is(err, export.ErrBadSize):
		return "Invalid image size"
	}
	return "Error"
}

// NewErrorDialog shows err with a selectable message and blocks until it is
// closed.
func NewErrorDialog(
	parent *gtk.ApplicationWindow,
	err error,
) {
	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s",
		errorTitle(err),
	)
	dialog.FormatSecondaryText("%s", err.Error())
	dialog.Connect("response", dialog.Destroy)

	if messageArea, areaErr := dialog.GetMessageArea(); areaErr == nil {
		messageArea.GetChildren().Foreach(func(item interface{}) {
			if widget, ok := item.(*gtk.Widget); ok {
				if l, err := gtk.WidgetToLabel(widget); err == nil {
					l.SetSelectable(true)
				}
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.Run()
}

func NewProgressDialog(
	parentCtx context.Context,
	parentWindow gtk.IWindow,
	title string,
	description string,
	progress *export.Progress,
	onCancel func(),
) (*ProgressDialog, error) {
	var err error
	dialog := &ProgressDialog{progress: progress}
	dialog.Dialog, err = gtk.DialogNewWithButtons(
		title,
		parentWindow,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		[]interface{}{"CANCEL", gtk.RESPONSE_CANCEL},
	)
	if err != nil {
		return nil, fmt.Errorf("gtk.DialogNewWithButtons: %w", err)
	}
	dialog.SetKeepAbove(true)
	dialog.Connect("response", func(dialog *gtk.Dialog, response gtk.ResponseType) {
		if response == gtk.RESPONSE_CANCEL {
			onCancel()
		}
	})

	ca, err := dialog.GetContentArea()
	if err != nil {
		return nil, fmt.Errorf("gtk.Dialog.GetContentArea: %w", err)
	}
	dialog.label, _ = gtk.LabelNew(description)
	ca.Add(dialog.label)

	dialog.progressBar, _ = gtk.ProgressBarNew()
	dialog.progressBar.SetProperty("show-text", true)
	dialog.progressBar.SetSizeRequest(500, 80)
	ca.Add(dialog.progressBar)

	go dialog.periodicUpdate(parentCtx)
	return dialog, nil
}

type ProgressDialog struct {
	*gtk.Dialog
	progressBar *gtk.ProgressBar
	label       *gtk.Label

	progress *export.Progress
}

func (dialog *ProgressDialog) periodicUpdate(ctx context.Context) {
	ticker := time.NewTicker(time.Second / 10)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fraction, stage := dialog.progress.Fraction(), dialog.progress.Stage()
			glib.IdleAdd(func() {
				dialog.progressBar.SetFraction(fraction)
				if stage != "" {
					dialog.progressBar.SetText(stage)
				}
			})
		case <-ctx.Done():
			glib.IdleAdd(func() {
				dialog.Destroy()
			})
			return
		}
	}
}

// NewImageDialog previews a saved PNG, scaled to fit previewSize, with
// buttons to keep or delete it. Closing the window keeps the file.
func NewImageDialog(
	app *gtk.Application,
	path string,
	size image.Point,
	onKeep func(),
	onDelete func(),
) (*ImagePreview, error) {
	w := &ImagePreview{Path: path}
	var err error

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationWindowNew: %w", err)
	}
	w.SetTitle(filepath.Base(path))

	pixbuf, err := gdk.PixbufNewFromFileAtScale(path, previewSize, previewSize, true)
	if err != nil {
		return nil, fmt.Errorf("loading preview of %v: %w", path, err)
	}
	previewImage, err := gtk.ImageNewFromPixbuf(pixbuf)
	if err != nil {
		return nil, fmt.Errorf("gtk.ImageNewFromPixbuf: %w", err)
	}
	previewImage.SetHExpand(true)
	previewImage.SetVExpand(true)

	info, _ := gtk.LabelNew(fmt.Sprintf("%v (%vx%v)", path, size.X, size.Y))
	info.SetSelectable(true)

	deleteButton, _ := gtk.ButtonNewWithLabel("Delete")
	deleteButton.Connect("clicked", func() {
		if onDelete != nil {
			onDelete()
		}
		w.Destroy()
	})

	keepButton, _ := gtk.ButtonNewWithLabel("Keep")
	keepButton.Connect("clicked", func() {
		if onKeep != nil {
			onKeep()
		}
		w.Destroy()
	})

	grid, _ := gtk.GridNew()
	grid.SetRowSpacing(6)
	grid.Attach(previewImage, 0, 0, 5, 1)
	grid.Attach(info, 0, 1, 5, 1)
	grid.Attach(keepButton, 0, 2, 1, 1)
	grid.Attach(deleteButton, 4, 2, 1, 1)

	w.Add(grid)

	return w, nil
}

type ImagePreview struct {
	*gtk.ApplicationWindow
	Path string
}
