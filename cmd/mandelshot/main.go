// Command mandelshot renders one view of the Mandelbrot set to a PNG file
// without opening a window.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/stewi1014/glmandel/internal/logging"
)

func main() {
	var cfg config
	flag.Float64Var(&cfg.x, "x", -0.95, "Real part of the view center.")
	flag.Float64Var(&cfg.y, "y", 0, "Imaginary part of the view center, before aspect correction.")
	flag.Float64Var(&cfg.zoom, "zoom", 1, "Zoom factor.")
	flag.IntVar(&cfg.opts.Width, "width", 1920, "Image width.")
	flag.IntVar(&cfg.opts.Height, "height", 1080, "Image height.")
	flag.Float64Var(&cfg.opts.Antialias, "antialias", 0.3, "9x antialias sample distance in pixels. 0 disables it.")
	flag.IntVar(&cfg.opts.Supersample, "supersample", 1, "Render at this multiple of the size and scale down.")
	flag.StringVar(&cfg.backend, "backend", "", "Render with this backend instead of the exporter: cpu, bigcpu or native.")
	flag.StringVar(&cfg.out, "out", "mandelbrot.png", "Output file.")
	debug := flag.Bool("debug", false, "Verbose logging.")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := logging.For("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := shoot(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("cancelled")
		} else {
			log.Error("exiting", "err", err)
		}
		os.Exit(1)
	}
}
