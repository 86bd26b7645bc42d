package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/settings"
)

const applicationID = "com.github.stewi1014.glmandel"

func NewApplication(opts options) (*Application, error) {
	app, err := gtk.ApplicationNew(applicationID, glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	a := &Application{
		Application: app,
		opts:        opts,
		store:       opts.settingsStore(),
	}

	return a, nil
}

type Application struct {
	*gtk.Application
	opts  options
	store settings.Store
}

// activate opens the render and config windows, connected by a pipe.
func (a *Application) activate(ctx context.Context, quit context.CancelCauseFunc) {
	client, listener := NewPipeListener()

	renderWindow := NewRenderWindow(a, client, ctx, quit)
	if renderWindow == nil {
		return
	}
	renderWindow.Connect("destroy", func() {
		quit(nil)
	})
	renderWindow.SetTitle("GLMandel")

	configWindow := NewConfigWindow(a.Application, listener, ctx, quit)
	if configWindow == nil {
		return
	}
	configWindow.Connect("destroy", func() {
		quit(nil)
	})
	configWindow.SetTitle("GLMandel Config")
}

func gtkMain(ctx context.Context, opts options) error {
	runtime.LockOSThread()

	gtk.Init(nil)
	app, err := NewApplication(opts)
	if err != nil {
		return err
	}

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		app.activate(appContext, appQuit)
	})

	go func() {
		<-appContext.Done()
		glib.IdleAdd(app.Quit)
	}()
	app.Run(nil)
	return context.Cause(appContext)
}
