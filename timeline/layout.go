package timeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/matt-g-everett/ledtl/prop"
)

// ForeverRepeats is the number of runs used for Item.Forever. It keeps durations finite.
const ForeverRepeats = 1e6

// ErrInvalidDescriptor is wrapped by every error New returns for a malformed descriptor.
var ErrInvalidDescriptor = errors.New("invalid timeline descriptor")

// item is a laid-out leaf of the descriptor.
type item struct {
	kind Kind
	path string
	seq  int

	start       float64
	blockingEnd float64
	duration    float64 // total active length, 0 for instantaneous items
	perRun      float64
	backForth   float64
	repeats     float64
	open        bool // repeats forever, ends with the timeline
	dir         Direction

	dial     prop.DialFunc
	toggle   prop.ToggleFunc
	loop     func(float64)
	sub      *Timeline
	callback func(float64)
	side     prop.ToggleFunc
}

// end is where the item deactivates on a timeline of the given duration.
func (it *item) end(total float64) float64 {
	if it.open {
		return total
	}
	return it.start + it.duration
}

func (it *item) runnable() bool {
	return it.kind == KindDial || it.kind == KindLoop || it.kind == KindSubTimeline
}

func (it *item) hasContent() bool {
	switch it.kind {
	case KindDial, KindToggle, KindLoop, KindCallback:
		return true
	case KindSubTimeline:
		return it.duration > 0
	}
	return it.side != nil
}

func (it *item) active(now float64) bool {
	return it.runnable() && it.duration > 0 && it.start <= now && now < it.start+it.duration
}

// fold maps time since start to the dial position of the current run. Plain repeats
// saw-tooth from 0 to 1, back-and-forth runs go 0 to 1 and back.
func (it *item) fold(rel float64) float64 {
	if it.perRun <= 0 {
		return 1
	}
	return it.wave(rel / it.perRun)
}

func (it *item) wave(x float64) float64 {
	if it.backForth > 1 {
		m := math.Mod(x, 2)
		if m > 1 {
			return 2 - m
		}
		return m
	}
	return x - math.Floor(x)
}

// terminal is the dial position once every run has played.
func (it *item) terminal() float64 {
	if it.perRun <= 0 {
		return 1
	}
	if it.backForth > 1 {
		return it.wave(2 * it.repeats)
	}
	frac := it.repeats - math.Floor(it.repeats)
	if frac == 0 {
		return 1
	}
	return frac
}

type layout struct {
	env       *Env
	items     []*item
	keyframes []*keyframe
	total     float64
}

func invalid(path, format string, args ...interface{}) error {
	return fmt.Errorf("%w: entry %s: %s", ErrInvalidDescriptor, path, fmt.Sprintf(format, args...))
}

func childPath(parent string, i int) string {
	if parent == "" {
		return strconv.Itoa(i)
	}
	return parent + "." + strconv.Itoa(i)
}

// sequence lays out entries one after the other and returns the new cursor.
func (l *layout) sequence(cursor float64, entries Sequence, path string) (float64, error) {
	for i, e := range entries {
		var err error
		cursor, err = l.entry(cursor, e, childPath(path, i))
		if err != nil {
			return 0, err
		}
	}
	return cursor, nil
}

// entry lays out one entry starting at cursor and returns its blocking end.
func (l *layout) entry(cursor float64, e Entry, path string) (float64, error) {
	switch v := e.(type) {
	case Item:
		return l.item(cursor, v, path)
	case *Item:
		if v == nil {
			return 0, invalid(path, "nil item")
		}
		return l.item(cursor, *v, path)
	case Sequence:
		return l.sequence(cursor, v, path)
	case Parallel:
		blockingEnd := cursor
		for i, child := range v {
			b, err := l.entry(cursor, child, childPath(path, i))
			if err != nil {
				return 0, err
			}
			blockingEnd = math.Max(blockingEnd, b)
		}
		return blockingEnd, nil
	case nil:
		return 0, invalid(path, "nil entry")
	}
	return 0, invalid(path, "unsupported entry %T", e)
}

func (l *layout) item(cursor float64, e Item, path string) (float64, error) {
	payload := e.Payload
	if payload == nil {
		payload = Wait{}
	}
	if e.Wait < 0 || e.Duration < 0 || e.RepeatMs < 0 || e.Repeat < 0 {
		return 0, invalid(path, "negative timing")
	}

	it := &item{kind: payload.kind(), path: path, dir: e.Direction, backForth: 1}
	it.start = cursor
	if e.Start != nil {
		if *e.Start < 0 {
			return 0, invalid(path, "negative start %v", *e.Start)
		}
		it.start = *e.Start
	}

	if err := l.bind(it, payload, path); err != nil {
		return 0, err
	}

	wait := e.Wait
	if wait == 0 && it.sub != nil {
		wait = it.sub.Duration()
	}
	it.blockingEnd = math.Max(cursor, it.start+wait)

	it.perRun = e.Duration
	if it.perRun == 0 {
		it.perRun = wait
	}
	if e.BackAndForth {
		if it.kind != KindDial {
			return 0, invalid(path, "backAndForth is only supported for dials, not %s", it.kind)
		}
		it.backForth = 2
	}

	repeats := 1.0
	repeating := e.Forever || e.Repeat > 0 || e.RepeatMs > 0
	if repeating && it.perRun <= 0 {
		return 0, invalid(path, "repeat needs a duration")
	}
	switch {
	case e.Forever:
		repeats = ForeverRepeats
		it.open = true
	case e.Repeat > 0:
		repeats = float64(e.Repeat)
	case e.RepeatMs > 0:
		repeats = e.RepeatMs / it.perRun
	}

	switch it.kind {
	case KindCallback, KindKeyframe, KindKeystop:
		it.duration = 0
	default:
		it.duration = it.perRun * it.backForth * repeats
	}
	it.repeats = repeats
	if (it.kind == KindDial || it.kind == KindToggle || it.kind == KindLoop) && it.duration <= 0 {
		return 0, invalid(path, "%s needs a wait or duration", it.kind)
	}

	if e.Side != nil && !e.Side.Empty() {
		if l.env == nil || l.env.Access == nil || l.env.Resolver == nil {
			return 0, invalid(path, "show/hide/add/remove need a property environment")
		}
		it.side = prop.NewSideToggle(l.env.Access, l.env.Resolver, *e.Side)
	}

	l.total = math.Max(l.total, it.blockingEnd)
	if !it.open {
		l.total = math.Max(l.total, it.start+it.duration)
	}

	it.seq = len(l.items)
	l.items = append(l.items, it)
	return it.blockingEnd, nil
}

// bind attaches the payload's function to the item and validates it.
func (l *layout) bind(it *item, payload Payload, path string) error {
	switch p := payload.(type) {
	case Wait:
	case Dial:
		if p.Fn == nil {
			return invalid(path, "dial without function")
		}
		it.dial = p.Fn
	case Toggle:
		if p.Fn == nil {
			return invalid(path, "toggle without function")
		}
		it.toggle = p.Fn
	case Loop:
		if p.Fn == nil {
			return invalid(path, "loop without function")
		}
		it.loop = p.Fn
	case Callback:
		if p.Fn == nil {
			return invalid(path, "callback without function")
		}
		it.callback = p.Fn
	case SubTimeline:
		it.sub = p.Timeline
		if it.sub == nil {
			if p.Entries == nil {
				return invalid(path, "sub-timeline without entries")
			}
			sub, err := New(p.Entries, l.env)
			if err != nil {
				return fmt.Errorf("entry %s: %w", path, err)
			}
			it.sub = sub
		}
	case KeyframeOpen:
		kf, err := l.keyframe(p.Selector, p.Props, p.Auto, path)
		if err != nil {
			return err
		}
		kf.velocity, kf.before, kf.after, kf.linear = p.Velocity, p.VelocityBefore, p.VelocityAfter, p.Linear
		kf.at = it
	case KeyframeStop:
		kf, err := l.keyframe(p.Selector, p.Props, p.Auto, path)
		if err != nil {
			return err
		}
		kf.velocity = p.Velocity
		kf.stop = true
		kf.at = it
	default:
		return invalid(path, "unsupported payload %T", payload)
	}
	return nil
}

func (l *layout) keyframe(selector string, props map[string]prop.Value, auto []string, path string) (*keyframe, error) {
	if selector == "" {
		return nil, invalid(path, "keyframe without selector")
	}
	if l.env == nil || l.env.Access == nil || l.env.Resolver == nil {
		return nil, invalid(path, "keyframes need a property environment")
	}
	kf := &keyframe{selector: selector, props: props, auto: auto}
	l.keyframes = append(l.keyframes, kf)
	return kf, nil
}
