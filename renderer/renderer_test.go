package renderer

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v", k, got)
		}
	}

	if k, err := ParseKind(" GL "); err != nil || k != KindGL {
		t.Errorf("ParseKind(\" GL \") = %v, %v", k, err)
	}

	if _, err := ParseKind("webgpu"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(webgpu) error = %v, want ErrUnknownKind", err)
	}
}

func TestKindString(t *testing.T) {
	if s := Kind(42).String(); s != "Kind(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestImagePresenter(t *testing.T) {
	var p ImagePresenter

	pix := make([]byte, 2*3*4)
	for i := range pix {
		pix[i] = byte(i)
	}

	if err := p.Present(pix, 2, 3); err != nil {
		t.Fatal(err)
	}
	if b := p.Image.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("bounds %v", b)
	}
	if c := p.Image.RGBAAt(1, 2); c.R != 20 || c.A != 23 {
		t.Errorf("pixel (1, 2) = %v", c)
	}

	if err := p.Present(pix, 4, 4); err == nil {
		t.Error("short frame accepted")
	}
	if p.Frames != 1 {
		t.Errorf("Frames = %v", p.Frames)
	}
}
