// Package stats measures frame times in one second windows.
package stats

import (
	"log/slog"
	"time"
)

const (
	DefaultWindow     = time.Second
	DefaultResetEvery = 10
)

// Sample is reported once per window.
type Sample struct {
	// FPS is the number of frames finished in the window.
	FPS int

	// EstimatedFPS is how many frames per second the renderer could do if
	// frames were back to back.
	EstimatedFPS float64

	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

type Sink interface {
	Report(Sample)
}

type SinkFunc func(Sample)

func (f SinkFunc) Report(s Sample) { f(s) }

// LogSink reports samples through a logger at debug level.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) Report(sample Sample) {
	s.Log.Debug("frame stats",
		"fps", sample.FPS,
		"estimatedFps", sample.EstimatedFPS,
		"avg", sample.Average,
		"min", sample.Min,
		"max", sample.Max,
	)
}

// Timer marks the start of a measured frame.
type Timer struct {
	start time.Time
}

// Recorder accumulates frame times. Min, max and average cover the last
// ResetEvery windows.
type Recorder struct {
	Window     time.Duration
	ResetEvery int
	Now        func() time.Time

	sink Sink

	frames      int
	windowStart time.Time
	windows     int

	total   time.Duration
	count   int
	min     time.Duration
	max     time.Duration
	started bool

	last Sample
}

func NewRecorder(sink Sink) *Recorder {
	return &Recorder{
		Window:     DefaultWindow,
		ResetEvery: DefaultResetEvery,
		Now:        time.Now,
		sink:       sink,
	}
}

// Start begins timing one frame.
func (r *Recorder) Start() Timer {
	now := r.Now()
	if !r.started {
		r.windowStart = now
		r.started = true
	}
	return Timer{start: now}
}

// Stop ends the frame begun by t and reports a Sample when the window has
// elapsed.
func (r *Recorder) Stop(t Timer) {
	elapsed := r.Now().Sub(t.start)

	r.total += elapsed
	r.count++
	if r.count == 1 || elapsed < r.min {
		r.min = elapsed
	}
	if r.count == 1 || elapsed > r.max {
		r.max = elapsed
	}

	r.frames++
	if t.start.Sub(r.windowStart) < r.Window {
		return
	}

	avg := r.total / time.Duration(r.count)
	r.last = Sample{
		FPS:     r.frames,
		Average: avg,
		Min:     r.min,
		Max:     r.max,
	}
	if avg > 0 {
		r.last.EstimatedFPS = float64(time.Second) / float64(avg)
	}

	r.frames = 0
	r.windowStart = t.start

	r.windows++
	if r.windows >= r.ResetEvery {
		r.windows = 0
		r.total, r.count = 0, 0
		r.min, r.max = 0, 0
	}

	if r.sink != nil {
		r.sink.Report(r.last)
	}
}

// Last returns the most recent Sample.
func (r *Recorder) Last() Sample {
	return r.last
}

// Reset drops all measurements and reports an empty Sample.
func (r *Recorder) Reset() {
	now, window, every, sink := r.Now, r.Window, r.ResetEvery, r.sink
	*r = Recorder{Now: now, Window: window, ResetEvery: every, sink: sink}
	if r.sink != nil {
		r.sink.Report(Sample{})
	}
}
