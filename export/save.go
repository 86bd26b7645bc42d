package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/internal/logging"
)

var ErrBadSize = errors.New("export: image size must be positive")

type Options struct {
	Width, Height int

	// Antialias is the 9x sample distance in pixels. Zero disables it.
	Antialias float64

	// Supersample renders at this multiple of the size and scales down.
	// Values below 2 disable it.
	Supersample int
}

// Progress collects progress suppliers for a running export.
type Progress struct {
	mu        sync.Mutex
	suppliers []supplier
}

type supplier struct {
	stage string
	fn    func() float64
}

func (p *Progress) add(stage string, fn func() float64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suppliers = append(p.suppliers, supplier{stage, fn})
}

// Fraction is the average progress of every stage added so far.
func (p *Progress) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.suppliers) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range p.suppliers {
		sum += s.fn()
	}
	return sum / float64(len(p.suppliers))
}

// Stage names the most recently started stage.
func (p *Progress) Stage() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.suppliers) == 0 {
		return ""
	}
	return p.suppliers[len(p.suppliers)-1].stage
}

// Render draws the camera view at the requested size. The camera is copied;
// only its position, zoom and iteration budget are used.
func Render(ctx context.Context, cam camera.Camera, opts Options, progress *Progress) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrBadSize, opts.Width, opts.Height)
	}

	scale := 1
	if opts.Supersample > 1 {
		scale = opts.Supersample
	}
	cam.Viewport = camera.Viewport{Width: opts.Width * scale, Height: opts.Height * scale}

	var sampler Sampler = NewFractalSampler(cam)
	if opts.Antialias > 0 {
		sampler = AntiAlias9x(sampler, opts.Antialias)
	}

	img := ToImage(sampler)
	progress.add("Rendering to Buffer", WrapWithProgress(&img))

	buff, err := Buffer(ctx, img)
	if err != nil {
		return nil, err
	}

	if scale > 1 {
		logging.For("Export").Debug("downscaling", "from", buff.Bounds().Size(), "scale", scale)
		buff = Downscale(buff, opts.Width, opts.Height)
	}
	return buff, nil
}

// Save encodes img as a PNG file at path. The file is removed if encoding
// fails or ctx is cancelled first.
func Save(ctx context.Context, path string, img image.Image, progress *Progress) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	stop := context.AfterFunc(ctx, func() {
		file.Close()
	})
	defer func() {
		stop()
		if cerr := file.Close(); err == nil && cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	progress.add("Encoding PNG", WrapWithProgress(&img))
	if err := png.Encode(file, img); err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return cause
		}
		return fmt.Errorf("export: encoding %v: %w", path, err)
	}
	return ctx.Err()
}

// SavePNG renders the camera view and saves it to path.
func SavePNG(ctx context.Context, path string, cam camera.Camera, opts Options, progress *Progress) error {
	img, err := Render(ctx, cam, opts, progress)
	if err != nil {
		return err
	}
	return Save(ctx, path, img, progress)
}
