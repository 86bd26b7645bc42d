package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"reflect"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/stats"
)

func NewConfigWindow(
	app *gtk.Application,
	listener net.Listener,
	ctx context.Context,
	quit func(error),
) *ConfigWindow {
	var err error
	w := &ConfigWindow{
		ctx:  ctx,
		quit: quit,
		log:  logging.For("ConfigWindow"),
	}

	conn, err := listener.Accept()
	if err != nil {
		quit(fmt.Errorf("accepting render window: %w", err))
		return nil
	}
	context.AfterFunc(ctx, func() {
		listener.Close()
	})
	w.sendMessage = startSender(ctx, conn, quit)

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(280, 500)

	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	box.SetMarginStart(10)
	box.SetMarginEnd(10)
	box.SetMarginTop(10)
	box.SetMarginBottom(10)

	box.Add(w.backendSection())
	box.Add(w.statsSection())
	box.Add(w.saveSection())

	w.Add(box)
	w.ShowAll()

	go receive(conn, quit, w.handleMessage)

	return w
}

type ConfigWindow struct {
	*gtk.ApplicationWindow

	ctx  context.Context
	quit func(error)
	log  *slog.Logger

	activeLabel *gtk.Label
	fpsLabel    *gtk.Label
	frameLabel  *gtk.Label

	width, height *gtk.SpinButton
	antialias     *gtk.SpinButton
	supersample   *gtk.SpinButton

	sendMessage chan<- any
}

func (w *ConfigWindow) backendSection() gtk.IWidget {
	frame, _ := gtk.FrameNew("Renderer")
	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 4)

	w.activeLabel, _ = gtk.LabelNew("Active: none")
	box.Add(w.activeLabel)

	for _, kind := range renderer.Kinds() {
		button, _ := gtk.ButtonNewWithLabel(kind.String())
		button.Connect("clicked", func() {
			w.send(BackendRequest{Kind: kind})
		})
		box.Add(button)
	}

	frame.Add(box)
	return frame
}

func (w *ConfigWindow) statsSection() gtk.IWidget {
	frame, _ := gtk.FrameNew("Performance")
	box, _ := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 4)

	w.fpsLabel, _ = gtk.LabelNew("FPS: -")
	w.frameLabel, _ = gtk.LabelNew("Frame time: -")
	box.Add(w.fpsLabel)
	box.Add(w.frameLabel)

	frame.Add(box)
	return frame
}

func spinRow(grid *gtk.Grid, row int, label string, min, max, step, value float64) *gtk.SpinButton {
	l, _ := gtk.LabelNew(label)
	l.SetHAlign(gtk.ALIGN_START)
	spin, _ := gtk.SpinButtonNewWithRange(min, max, step)
	spin.SetValue(value)
	spin.SetHExpand(true)
	grid.Attach(l, 0, row, 1, 1)
	grid.Attach(spin, 1, row, 1, 1)
	return spin
}

func (w *ConfigWindow) saveSection() gtk.IWidget {
	frame, _ := gtk.FrameNew("Save Image")
	grid, _ := gtk.GridNew()
	grid.SetRowSpacing(4)
	grid.SetColumnSpacing(6)

	w.width = spinRow(grid, 0, "Width", 1, 32768, 1, 3840)
	w.height = spinRow(grid, 1, "Height", 1, 32768, 1, 2160)
	w.antialias = spinRow(grid, 2, "Antialias", 0, 2, 0.05, 0.3)
	w.antialias.SetDigits(2)
	w.supersample = spinRow(grid, 3, "Supersample", 1, 8, 1, 1)

	button, _ := gtk.ButtonNewWithLabel("Save PNG")
	button.Connect("clicked", w.chooseFile)
	grid.Attach(button, 0, 4, 2, 1)

	frame.Add(grid)
	return frame
}

func (w *ConfigWindow) chooseFile() {
	dialog, err := gtk.FileChooserDialogNewWith2Buttons(
		"Save PNG", w,
		gtk.FILE_CHOOSER_ACTION_SAVE,
		"Cancel", gtk.RESPONSE_CANCEL,
		"Save", gtk.RESPONSE_ACCEPT,
	)
	if err != nil {
		NewErrorDialog(w.ApplicationWindow, err)
		return
	}
	defer dialog.Destroy()

	dialog.SetDoOverwriteConfirmation(true)
	dialog.SetCurrentName("mandelbrot.png")

	if dialog.Run() != gtk.RESPONSE_ACCEPT {
		return
	}

	w.send(SaveRequest{
		Path: dialog.GetFilename(),
		Options: export.Options{
			Width:       w.width.GetValueAsInt(),
			Height:      w.height.GetValueAsInt(),
			Antialias:   w.antialias.GetValue(),
			Supersample: w.supersample.GetValueAsInt(),
		},
	})
}

func (w *ConfigWindow) showStats(sample stats.Sample) {
	w.fpsLabel.SetText(fmt.Sprintf("FPS: %v (%.1f estimated)", sample.FPS, sample.EstimatedFPS))
	w.frameLabel.SetText(fmt.Sprintf("Frame time: %v avg, %v min, %v max", sample.Average, sample.Min, sample.Max))
}

func (w *ConfigWindow) handleMessage(v any) {
	switch msg := v.(type) {
	case StatsMessage:
		glib.IdleAdd(func() {
			w.showStats(msg.Sample)
		})

	case BackendChanged:
		glib.IdleAdd(func() {
			w.activeLabel.SetText(fmt.Sprintf("Active: %v", msg.Kind))
		})
		if msg.Err != "" {
			w.log.Warn("backend switch failed", "kind", msg.Kind, "err", msg.Err)
		}

	default:
		w.log.Warn("unknown message received", "type", reflect.TypeOf(v))
	}
}

func (w *ConfigWindow) send(msg any) {
	select {
	case w.sendMessage <- msg:
	case <-w.ctx.Done():
	}
}
