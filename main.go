package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/stewi1014/glmandel/app"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/settings"
)

func init() {
	// GTK and GLFW both expect to stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	frontend     string
	backend      string
	debug        bool
	width        int
	height       int
	settingsPath string
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.frontend, "frontend", "gtk", "Window toolkit: gtk or glfw.")
	flag.StringVar(&opts.backend, "backend", "", "Renderer: cpu, bigcpu, gl or native. Defaults to the last one used.")
	flag.BoolVar(&opts.debug, "debug", false, "Verbose logging, GL debug output and strict camera checks.")
	flag.IntVar(&opts.width, "width", 0, "Initial window width. 0 picks one from the monitor.")
	flag.IntVar(&opts.height, "height", 0, "Initial window height. 0 picks one from the monitor.")
	flag.StringVar(&opts.settingsPath, "settings", "", "Settings file. Defaults to the user config directory.")
	flag.Parse()
	return opts
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// settingsStore returns nil when no settings location is available.
func (opts options) settingsStore() settings.Store {
	path := opts.settingsPath
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			logging.For("Main").Warn("settings disabled", "err", err)
			return nil
		}
	}
	return settings.FileStore{Path: path}
}

func (opts options) initialBackend(store settings.Store) (renderer.Kind, error) {
	if opts.backend == "" {
		return app.InitialBackend(store, renderer.KindGL), nil
	}
	return renderer.ParseKind(opts.backend)
}

func main() {
	opts := parseFlags()
	logging.SetLogger(newLogger(opts.debug))

	signalContext, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	mainContext, mainQuit := context.WithCancelCause(signalContext)

	func() {
		defer CatchPanicToContext(mainQuit)

		switch opts.frontend {
		case "gtk":
			mainQuit(gtkMain(mainContext, opts))
		case "glfw":
			mainQuit(glfwMain(mainContext, opts))
		default:
			mainQuit(fmt.Errorf("unknown frontend %q", opts.frontend))
		}
	}()

	<-mainContext.Done()
	if err := context.Cause(mainContext); err != nil && !errors.Is(err, context.Canceled) {
		logging.For("Main").Error("exiting", "err", err)
		os.Exit(1)
	}
}
