package renderer

import (
	"fmt"
	"image"
)

// ImagePresenter keeps the last presented frame in memory.
type ImagePresenter struct {
	Image  *image.RGBA
	Frames int
}

func (p *ImagePresenter) Present(pix []byte, w, h int) error {
	if len(pix) < w*h*4 {
		return fmt.Errorf("renderer: frame of %v bytes is too small for %vx%v", len(pix), w, h)
	}

	if p.Image == nil || p.Image.Bounds().Dx() != w || p.Image.Bounds().Dy() != h {
		p.Image = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	copy(p.Image.Pix, pix[:w*h*4])
	p.Frames++
	return nil
}
