package controller

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTapController() (*TouchController, *fakeClock, *int) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	toggles := 0
	c := NewTouchController(TouchOptions{
		ToggleFullscreen: func() { toggles++ },
		Now:              clock.now,
	})
	return c, clock, &toggles
}

func tapOnce(c *TouchController, clock *fakeClock, id int, hold time.Duration) {
	cam := newCamera()
	down(c, id, 100, 100)
	c.Update(dt, &cam)
	clock.advance(hold)
	up(c, id)
	c.Update(dt, &cam)
}

func TestDoubleTapTogglesFullscreen(t *testing.T) {
	c, clock, toggles := newTapController()

	tapOnce(c, clock, 1, 50*time.Millisecond)
	clock.advance(100 * time.Millisecond)
	tapOnce(c, clock, 2, 50*time.Millisecond)

	if *toggles != 1 {
		t.Errorf("toggled %v times, want 1", *toggles)
	}
}

func TestDoubleTapTooSlow(t *testing.T) {
	c, clock, toggles := newTapController()

	tapOnce(c, clock, 1, 50*time.Millisecond)
	clock.advance(300 * time.Millisecond)
	tapOnce(c, clock, 2, 50*time.Millisecond)

	if *toggles != 0 {
		t.Errorf("toggled %v times, want 0", *toggles)
	}

	// the slow second tap restarts the sequence
	clock.advance(100 * time.Millisecond)
	tapOnce(c, clock, 3, 50*time.Millisecond)
	if *toggles != 1 {
		t.Errorf("toggled %v times after restart, want 1", *toggles)
	}
}

func TestLongPressCancelsDoubleTap(t *testing.T) {
	tests := []struct {
		name        string
		first, hold time.Duration
	}{
		{"first held", 150 * time.Millisecond, 50 * time.Millisecond},
		{"second held", 50 * time.Millisecond, 150 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock, toggles := newTapController()

			tapOnce(c, clock, 1, tt.first)
			clock.advance(100 * time.Millisecond)
			tapOnce(c, clock, 2, tt.hold)

			if *toggles != 0 {
				t.Errorf("toggled %v times, want 0", *toggles)
			}
		})
	}
}

func TestMultiTouchCancelsDoubleTap(t *testing.T) {
	c, clock, toggles := newTapController()
	cam := newCamera()

	tapOnce(c, clock, 1, 50*time.Millisecond)
	clock.advance(50 * time.Millisecond)
	down(c, 2, 100, 100)
	down(c, 3, 200, 100)
	c.Update(dt, &cam)
	up(c, 3)
	c.Update(dt, &cam)
	up(c, 2)
	c.Update(dt, &cam)

	if *toggles != 0 {
		t.Errorf("toggled %v times, want 0", *toggles)
	}
}
