package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenPresenter keeps the latest frame in an ebiten image, reallocating it
// when the frame size changes.
type ebitenPresenter struct {
	frame         *ebiten.Image
	width, height int
}

func (p *ebitenPresenter) Present(pix []byte, w, h int) error {
	if len(pix) < w*h*4 {
		return fmt.Errorf("frame of %v bytes is too small for %vx%v", len(pix), w, h)
	}

	if p.frame == nil || p.width != w || p.height != h {
		if p.frame != nil {
			p.frame.Deallocate()
		}
		p.frame = ebiten.NewImage(w, h)
		p.width, p.height = w, h
	}

	p.frame.WritePixels(pix[:w*h*4])
	return nil
}

func (p *ebitenPresenter) Draw(screen *ebiten.Image) {
	if p.frame != nil {
		screen.DrawImage(p.frame, nil)
	}
}
