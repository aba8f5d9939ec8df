package stream

import (
	"math"

	"github.com/matt-g-everett/ledtl/timeline"
)

// An Animation implements a way to render a specific animation.
type Animation interface {
	CalculateFrame(runtimeMs int64) *Frame
}

// A Finite animation reports when it has played to its end and can be played again
// from the start.
type Finite interface {
	Animation
	Done() bool
	Reset()
}

// TimelineAnimation plays a timeline on a strip.
type TimelineAnimation struct {
	name     string
	strip    *Strip
	timeline *timeline.Timeline
	loop     bool

	startMs int64
	started bool
	done    bool
}

// NewTimelineAnimation creates a TimelineAnimation. A looping animation starts over
// when it reaches the end of the timeline and is never done.
func NewTimelineAnimation(name string, strip *Strip, tl *timeline.Timeline, loop bool) *TimelineAnimation {
	a := new(TimelineAnimation)
	a.name = name
	a.strip = strip
	a.timeline = tl
	a.loop = loop
	return a
}

// Name returns the name of the animation.
func (a *TimelineAnimation) Name() string {
	return a.name
}

// CalculateFrame evaluates the timeline at the time since the first frame.
func (a *TimelineAnimation) CalculateFrame(runtimeMs int64) *Frame {
	if !a.started {
		a.startMs = runtimeMs
		a.started = true
	}

	t := float64(runtimeMs - a.startMs)
	if d := a.timeline.Duration(); a.loop && d > 0 && t >= d {
		// Finish the pass, then wrap around.
		a.timeline.Evaluate(d, nil)
		t = math.Mod(t, d)
		a.startMs = runtimeMs - int64(t)
	}

	a.timeline.Evaluate(t, a.complete)
	return a.strip.Render()
}

func (a *TimelineAnimation) complete() {
	if !a.loop {
		a.done = true
	}
}

// Done reports whether a non-looping animation reached its end.
func (a *TimelineAnimation) Done() bool {
	return a.done
}

// Reset makes the next frame start the timeline from the beginning.
func (a *TimelineAnimation) Reset() {
	a.started = false
	a.done = false
}
