package scene

import (
	"fmt"
	"strconv"

	"github.com/matt-g-everett/ledtl/curve"
	"github.com/matt-g-everett/ledtl/prop"
	"github.com/matt-g-everett/ledtl/timeline"
)

// Hooks are the functions loop and callback items refer to by name.
type Hooks map[string]func(float64)

// Build lays out the scene on env. env may be nil for scenes that only use hooks.
func (f *File) Build(env *timeline.Env, hooks Hooks) (*timeline.Timeline, error) {
	b := builder{env: env, hooks: hooks}
	desc, err := b.sequence(f.Timeline, "")
	if err != nil {
		return nil, err
	}
	return timeline.New(desc, env)
}

type builder struct {
	env   *timeline.Env
	hooks Hooks
}

func invalid(path, format string, args ...interface{}) error {
	return fmt.Errorf("%w: entry %s: %s", timeline.ErrInvalidDescriptor, path, fmt.Sprintf(format, args...))
}

func childPath(parent string, i int) string {
	if parent == "" {
		return strconv.Itoa(i)
	}
	return parent + "." + strconv.Itoa(i)
}

func (b *builder) sequence(entries []Entry, path string) (timeline.Sequence, error) {
	seq := make(timeline.Sequence, 0, len(entries))
	for i, e := range entries {
		entry, err := b.entry(e, childPath(path, i))
		if err != nil {
			return nil, err
		}
		seq = append(seq, entry)
	}
	return seq, nil
}

func (b *builder) entry(e Entry, path string) (timeline.Entry, error) {
	if e.Item == nil {
		group := make(timeline.Parallel, 0, len(e.Parallel))
		for i, child := range e.Parallel {
			entry, err := b.entry(child, childPath(path, i))
			if err != nil {
				return nil, err
			}
			group = append(group, entry)
		}
		return group, nil
	}
	return b.item(e.Item, path)
}

func (b *builder) item(it *Item, path string) (timeline.Item, error) {
	out := timeline.Item{
		Wait:         it.Wait,
		Duration:     it.Duration,
		Start:        it.Start,
		Repeat:       it.Repeat.Count,
		Forever:      it.Repeat.Forever,
		RepeatMs:     it.RepeatMs,
		BackAndForth: it.BackAndForth,
	}

	forward := it.Forward == nil || *it.Forward
	backward := it.Backward == nil || *it.Backward
	switch {
	case forward && backward:
		out.Direction = timeline.Both
	case forward:
		out.Direction = timeline.ForwardOnly
	case backward:
		out.Direction = timeline.BackwardOnly
	default:
		return out, invalid(path, "item reacts to neither direction")
	}

	side := prop.Side{Show: it.Show, Hide: it.Hide, Add: it.Add, Remove: it.Remove}
	if !side.Empty() {
		out.Side = &side
	}

	payload, err := b.payload(it, path)
	if err != nil {
		return out, err
	}
	out.Payload = payload
	return out, nil
}

func (b *builder) payload(it *Item, path string) (timeline.Payload, error) {
	var payloads []timeline.Payload
	add := func(p timeline.Payload) {
		payloads = append(payloads, p)
	}

	if it.Dial != nil {
		p, err := b.dial(it.Dial, path)
		if err != nil {
			return nil, err
		}
		add(p)
	}
	if it.Toggle != nil {
		if err := b.needEnv(path, "toggle"); err != nil {
			return nil, err
		}
		targets := b.env.Resolver.Resolve(it.Toggle.Target)
		add(timeline.Toggle{Fn: prop.NewPropToggle(b.env.Access, targets, it.Toggle.Off, it.Toggle.On)})
	}
	if it.Loop != "" {
		fn, err := b.hook(it.Loop, path)
		if err != nil {
			return nil, err
		}
		add(timeline.Loop{Fn: fn})
	}
	if it.Callback != "" {
		fn, err := b.hook(it.Callback, path)
		if err != nil {
			return nil, err
		}
		add(timeline.Callback{Fn: fn})
	}
	if it.Timeline != nil {
		entries, err := b.sequence(it.Timeline, path)
		if err != nil {
			return nil, err
		}
		add(timeline.SubTimeline{Entries: entries})
	}
	if it.Keyframe != "" {
		add(timeline.KeyframeOpen{
			Selector:       it.Keyframe,
			Props:          it.Props,
			Auto:           it.Auto,
			Velocity:       it.Velocity,
			VelocityBefore: it.VelocityBefore,
			VelocityAfter:  it.VelocityAfter,
			Linear:         it.Linear,
		})
	}
	if it.Keystop != "" {
		add(timeline.KeyframeStop{
			Selector: it.Keystop,
			Props:    it.Props,
			Auto:     it.Auto,
			Velocity: it.Velocity,
		})
	}

	switch len(payloads) {
	case 0:
		return timeline.Wait{}, nil
	case 1:
		return payloads[0], nil
	}
	return nil, invalid(path, "item has %d payloads, expected at most one", len(payloads))
}

func (b *builder) dial(d *Dial, path string) (timeline.Payload, error) {
	if err := b.needEnv(path, "dial"); err != nil {
		return nil, err
	}
	targets := b.env.Resolver.Resolve(d.Target)
	fn := prop.NewDial(b.env.Access, targets, d.From, d.To, d.VelocityFrom, d.VelocityTo)
	if d.Ease != "" {
		f, ok := curve.Ease(d.Ease)
		if !ok {
			return nil, invalid(path, "unknown ease %q", d.Ease)
		}
		fn = prop.Eased(fn, f)
	}
	return timeline.Dial{Fn: fn}, nil
}

func (b *builder) hook(name, path string) (func(float64), error) {
	fn, ok := b.hooks[name]
	if !ok || fn == nil {
		return nil, invalid(path, "unknown hook %q", name)
	}
	return fn, nil
}

func (b *builder) needEnv(path, what string) error {
	if b.env == nil || b.env.Access == nil || b.env.Resolver == nil {
		return invalid(path, "%s needs a property environment", what)
	}
	return nil
}
