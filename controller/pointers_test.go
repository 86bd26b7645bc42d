package controller

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPointersLifecycle(t *testing.T) {
	p := NewPointers()
	p.Down(7, mgl64.Vec2{1, 2})
	p.Down(3, mgl64.Vec2{5, 5})

	if p.Len() != 2 {
		t.Fatalf("len %v", p.Len())
	}
	snap := p.Snapshot()
	if snap[0].ID != 7 || snap[1].ID != 3 {
		t.Errorf("snapshot not in arrival order: %+v", snap)
	}

	if !p.Move(7, mgl64.Vec2{4, 6}) {
		t.Error("move of active pointer failed")
	}
	if p.Move(99, mgl64.Vec2{}) {
		t.Error("move of unknown pointer succeeded")
	}

	s, _ := p.Get(7)
	if s.Delta() != (mgl64.Vec2{3, 4}) {
		t.Errorf("delta %v", s.Delta())
	}

	p.Commit()
	s, _ = p.Get(7)
	if s.Delta() != (mgl64.Vec2{}) {
		t.Errorf("delta after commit %v", s.Delta())
	}

	if !p.Up(7) || p.Up(7) {
		t.Error("up should remove exactly once")
	}
	if p.Len() != 1 || p.Snapshot()[0].ID != 3 {
		t.Errorf("unexpected pointers %+v", p.Snapshot())
	}

	p.Clear()
	if p.Len() != 0 {
		t.Error("clear left pointers")
	}
}

func TestPointerDownTwiceMoves(t *testing.T) {
	p := NewPointers()
	p.Down(1, mgl64.Vec2{0, 0})
	p.Down(1, mgl64.Vec2{2, 0})

	if p.Len() != 1 {
		t.Fatalf("len %v", p.Len())
	}
	s, _ := p.Get(1)
	if s.Position != (mgl64.Vec2{2, 0}) || s.LastPosition != (mgl64.Vec2{0, 0}) {
		t.Errorf("state %+v", s)
	}
}
