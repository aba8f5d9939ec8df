// Package timeline lays out dials, toggles, loops, callbacks, keyframes and nested
// timelines on a single time axis and scrubs through them.
//
// Time has no fixed unit. Milliseconds are the usual choice, but a scroll position
// works just as well. A Timeline can be evaluated at any time, in any order: every
// activation and deactivation between the previous time and the new one fires exactly
// once, in time order, without visiting the frames in between.
//
// A Timeline is not safe for concurrent use, and callbacks must not evaluate the
// timeline that called them.
package timeline

import (
	"math"
	"sort"

	"github.com/matt-g-everett/ledtl/prop"
)

// Env gives keyframes and side annotations access to the animated targets.
type Env struct {
	Access   prop.Access
	Resolver prop.Resolver
}

// event is an activation or deactivation boundary of an item.
type event struct {
	time       float64
	activating bool
	item       *item
}

// Timeline is a laid-out descriptor that can be evaluated at any time.
type Timeline struct {
	items    []*item
	forward  []event
	reverse  []event
	duration float64

	last      float64
	evaluated bool
}

// Span describes where an item was placed.
type Span struct {
	Kind     Kind
	Path     string
	Start    float64
	Duration float64
	Forever  bool
}

// New lays out the descriptor. env may be nil if there are no keyframes and no side
// annotations. Malformed descriptors yield an error wrapping ErrInvalidDescriptor.
func New(desc Sequence, env *Env) (*Timeline, error) {
	l := &layout{env: env}
	if _, err := l.sequence(0, desc, ""); err != nil {
		return nil, err
	}

	items := l.items
	if len(l.keyframes) > 0 {
		items = append(items, consolidate(env, l.keyframes, len(items))...)
	}

	tl := new(Timeline)
	tl.items = items
	tl.duration = l.total
	tl.buildEvents()
	return tl, nil
}

func (tl *Timeline) buildEvents() {
	for _, it := range tl.items {
		if !it.hasContent() {
			continue
		}
		end := it.end(tl.duration)
		instant := it.duration == 0 && !it.open

		if it.dir.forward() {
			tl.forward = append(tl.forward, event{time: it.start, activating: true, item: it})
			if !instant {
				tl.forward = append(tl.forward, event{time: end, activating: false, item: it})
			}
		}
		if it.dir.backward() {
			if instant {
				tl.reverse = append(tl.reverse, event{time: it.start, activating: true, item: it})
			} else {
				tl.reverse = append(tl.reverse,
					event{time: end, activating: true, item: it},
					event{time: it.start, activating: false, item: it})
			}
		}
	}

	// Ties: deactivations before activations, then declaration order (reversed when
	// going backward, so the reverse list undoes the forward list).
	sort.SliceStable(tl.forward, func(i, j int) bool {
		a, b := tl.forward[i], tl.forward[j]
		if a.time != b.time {
			return a.time < b.time
		}
		if a.activating != b.activating {
			return !a.activating
		}
		return a.item.seq < b.item.seq
	})
	sort.SliceStable(tl.reverse, func(i, j int) bool {
		a, b := tl.reverse[i], tl.reverse[j]
		if a.time != b.time {
			return a.time > b.time
		}
		if a.activating != b.activating {
			return !a.activating
		}
		return a.item.seq > b.item.seq
	})
}

// Duration returns the length of the timeline.
func (tl *Timeline) Duration() float64 {
	return tl.duration
}

// Spans lists the laid-out items, including the dials generated from keyframes.
func (tl *Timeline) Spans() []Span {
	spans := make([]Span, 0, len(tl.items))
	for _, it := range tl.items {
		spans = append(spans, Span{Kind: it.kind, Path: it.path, Start: it.start, Duration: it.duration, Forever: it.open})
	}
	return spans
}

// Evaluate moves the timeline to time t. Times beyond the duration are clamped.
// onComplete, if not nil, is called when t reaches the end of the timeline. Calling
// Evaluate again with the same t does nothing, and so does moving between two times
// at or past the end. A NaN t is ignored.
func (tl *Timeline) Evaluate(t float64, onComplete func()) {
	if math.IsNaN(t) {
		return
	}
	if tl.evaluated && t == tl.last {
		return
	}
	if tl.evaluated && t >= tl.duration && tl.last >= tl.duration {
		tl.last = t
		return
	}

	from := math.Inf(-1)
	if tl.evaluated {
		from = math.Min(tl.last, tl.duration)
	}
	now := math.Min(t, tl.duration)
	backward := now < from
	tl.last, tl.evaluated = t, true

	lo, hi := math.Min(from, now), math.Max(from, now)
	crossed := func(x float64) bool {
		return x > lo && x <= hi
	}

	if backward {
		for _, ev := range tl.reverse {
			if ev.time > hi {
				continue
			} else if ev.time <= lo {
				break
			}
			tl.fire(ev, now, true, crossed)
		}
	} else {
		for _, ev := range tl.forward {
			if ev.time <= lo {
				continue
			} else if ev.time > hi {
				break
			}
			tl.fire(ev, now, false, crossed)
		}
	}

	for _, it := range tl.items {
		if !it.active(now) {
			continue
		}
		if (backward && !it.dir.backward()) || (!backward && !it.dir.forward()) {
			continue
		}
		rel := now - it.start
		switch it.kind {
		case KindDial:
			it.dial(it.fold(rel))
		case KindLoop:
			it.loop(rel)
		case KindSubTimeline:
			it.sub.Evaluate(rel, nil)
		}
	}

	if t >= tl.duration && onComplete != nil {
		onComplete()
	}
}

// fire applies one crossed boundary.
func (tl *Timeline) fire(ev event, now float64, backward bool, crossed func(float64) bool) {
	it := ev.item

	if ev.activating {
		if it.duration == 0 && !it.open {
			if it.callback != nil {
				it.callback(now - it.start)
			}
			if it.side != nil {
				it.side(!backward)
			}
			return
		}

		// The whole window was skipped in this jump: nothing lingers.
		other := it.end(tl.duration)
		if backward {
			other = it.start
		}
		if crossed(other) {
			return
		}
		if it.toggle != nil {
			it.toggle(true)
		}
		if it.side != nil {
			it.side(true)
		}
		return
	}

	if it.toggle != nil {
		it.toggle(false)
	}
	if it.side != nil {
		it.side(false)
	}
	if it.active(now) {
		return
	}
	switch it.kind {
	case KindDial:
		if backward {
			it.dial(0)
		} else {
			it.dial(it.terminal())
		}
	case KindSubTimeline:
		it.sub.Evaluate(now-it.start, nil)
	}
}
