package timeline

import (
	"fmt"
	"sort"

	"github.com/matt-g-everett/ledtl/prop"
)

type keyframe struct {
	selector string
	props    map[string]prop.Value
	auto     []string
	velocity map[string]prop.Value
	before   map[string]prop.Value
	after    map[string]prop.Value
	linear   bool
	stop     bool
	at       *item
}

// point is one keyframe of one (target, property) track.
type point struct {
	time   float64
	value  prop.Value
	nums   []float64
	before []float64 // explicit velocity arriving here, nil if inferred
	after  []float64 // explicit velocity leaving here, nil if inferred
	linear bool
}

type trackKey struct {
	target prop.Target
	name   string
}

type track struct {
	key    trackKey
	points []point
}

// segment is the motion between two consecutive points of a track. Velocities are in
// property units per unit of timeline time.
type segment struct {
	target prop.Target
	name   string
	from   point
	to     point
	slope  []float64
	vStart []float64
	vEnd   []float64
}

// consolidate turns the recorded keyframes into dial items.
func consolidate(env *Env, keyframes []*keyframe, seq int) []*item {
	if len(keyframes) == 0 {
		return nil
	}
	ordered := make([]*keyframe, len(keyframes))
	copy(ordered, keyframes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].at.start < ordered[j].at.start
	})

	tracks := collectTracks(env, ordered)

	var segments []segment
	for _, tr := range tracks {
		segments = append(segments, tr.segments()...)
	}
	return mergeSegments(env.Access, segments, seq)
}

// collectTracks groups points by (target, property). A keystop closes its track, so a
// later keyframe for the same pair opens a new one.
func collectTracks(env *Env, ordered []*keyframe) []*track {
	open := make(map[trackKey]*track)
	var tracks []*track

	for _, kf := range ordered {
		names := kf.names()
		for _, target := range env.Resolver.Resolve(kf.selector) {
			for _, name := range names {
				key := trackKey{target: target, name: name}
				tr, ok := open[key]
				if !ok {
					if kf.stop {
						continue
					}
					tr = &track{key: key}
					open[key] = tr
					tracks = append(tracks, tr)
				}
				tr.points = append(tr.points, kf.point(env.Access, target, name))
				if kf.stop {
					delete(open, key)
				}
			}
		}
	}
	return tracks
}

func (kf *keyframe) names() []string {
	seen := make(map[string]bool, len(kf.props)+len(kf.auto))
	names := make([]string, 0, len(kf.props)+len(kf.auto))
	for name := range kf.props {
		seen[name] = true
		names = append(names, name)
	}
	for _, name := range kf.auto {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (kf *keyframe) point(access prop.Access, target prop.Target, name string) point {
	value, ok := kf.props[name]
	if !ok || value == nil {
		value = access.Get(target, name)
	}

	parts := prop.Extract(value)
	nums := make([]float64, len(parts))
	for i, c := range parts {
		nums[i] = c.Num
	}

	p := point{time: kf.at.start, value: value, nums: nums, linear: kf.linear}
	p.before = explicitVelocity(kf.before, kf.velocity, name, len(nums))
	p.after = explicitVelocity(kf.after, kf.velocity, name, len(nums))
	return p
}

func explicitVelocity(side, both map[string]prop.Value, name string, n int) []float64 {
	v, ok := side[name]
	if !ok {
		v, ok = both[name]
	}
	if !ok || v == nil {
		return nil
	}

	out := make([]float64, n)
	switch list := v.(type) {
	case []float64:
		copy(out, list)
	case []interface{}:
		for i := 0; i < n && i < len(list); i++ {
			out[i] = number(list[i])
		}
	default:
		if n > 0 {
			out[0] = number(v)
		}
	}
	return out
}

func number(v prop.Value) float64 {
	parts := prop.Extract(v)
	if len(parts) == 0 {
		return 0
	}
	return parts[0].Num
}

// slope is the average velocity per component between two points.
func slope(a, b point) []float64 {
	out := make([]float64, len(a.nums))
	span := b.time - a.time
	if span == 0 {
		return out
	}
	for i := range out {
		end := 0.0
		if i < len(b.nums) {
			end = b.nums[i]
		}
		out[i] = (end - a.nums[i]) / span
	}
	return out
}

// segments computes the velocities of every segment of the track. The first segment
// starts at rest and the last one comes to rest. In between, the velocity at a point is
// the secant through its neighbours, unless the segment before it is linear, in which
// case that segment's slope carries over. Explicit velocities always win.
func (tr *track) segments() []segment {
	pts := tr.points
	if len(pts) < 2 {
		return nil
	}

	segs := make([]segment, len(pts)-1)
	for i := range segs {
		a, b := pts[i], pts[i+1]
		s := &segs[i]
		s.target, s.name = tr.key.target, tr.key.name
		s.from, s.to = a, b
		s.slope = slope(a, b)
		s.vStart = make([]float64, len(a.nums))
		s.vEnd = make([]float64, len(a.nums))

		if i > 0 {
			prev := &segs[i-1]
			if pts[i-1].linear {
				s.vStart = prev.slope
			} else {
				secant := slope(pts[i-1], b)
				if a.before == nil {
					prev.vEnd = secant
				}
				s.vStart = secant
			}
		}
		if a.linear {
			s.vStart, s.vEnd = s.slope, s.slope
		}
		if a.after != nil {
			s.vStart = a.after
		}
		if b.before != nil {
			s.vEnd = b.before
		}
	}

	// Keyframes at the same time jump without animating.
	out := segs[:0]
	for _, s := range segs {
		if s.to.time > s.from.time {
			out = append(out, s)
		}
	}
	return out
}

func scaled(v []float64, span float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] * span
	}
	return out
}

type windowKey struct {
	start    float64
	duration float64
}

type segmentGroup struct {
	name       string
	from, to   prop.Value
	vStart     []float64
	vEnd       []float64
	targets    []prop.Target
	targetsKey string
}

type window struct {
	key    windowKey
	groups []*segmentGroup
	index  map[string]*segmentGroup
}

// mergeSegments builds one dial per window and target set. Segments in the same window
// with identical motion share a dial over all their targets.
func mergeSegments(access prop.Access, segments []segment, seq int) []*item {
	windowIndex := make(map[windowKey]*window)
	var windows []*window

	for _, s := range segments {
		key := windowKey{start: s.from.time, duration: s.to.time - s.from.time}
		w, ok := windowIndex[key]
		if !ok {
			w = &window{key: key, index: make(map[string]*segmentGroup)}
			windowIndex[key] = w
			windows = append(windows, w)
		}

		vStart := scaled(s.vStart, key.duration)
		vEnd := scaled(s.vEnd, key.duration)
		motion := fmt.Sprint(s.name, "|", s.from.value, "|", s.to.value, "|", vStart, "|", vEnd)
		g, ok := w.index[motion]
		if !ok {
			g = &segmentGroup{name: s.name, from: s.from.value, to: s.to.value, vStart: vStart, vEnd: vEnd}
			w.index[motion] = g
			w.groups = append(w.groups, g)
		}
		g.targets = append(g.targets, s.target)
	}

	var items []*item
	for _, w := range windows {
		type dialPlan struct {
			targets            []prop.Target
			start, end, vStart map[string]prop.Value
			vEnd               map[string]prop.Value
		}
		planIndex := make(map[string]*dialPlan)
		var plans []*dialPlan
		for _, g := range w.groups {
			g.targetsKey = fmt.Sprint(g.targets)
			d, ok := planIndex[g.targetsKey]
			if !ok {
				d = &dialPlan{
					targets: g.targets,
					start:   make(map[string]prop.Value),
					end:     make(map[string]prop.Value),
					vStart:  make(map[string]prop.Value),
					vEnd:    make(map[string]prop.Value),
				}
				planIndex[g.targetsKey] = d
				plans = append(plans, d)
			}
			d.start[g.name] = g.from
			d.end[g.name] = g.to
			d.vStart[g.name] = g.vStart
			d.vEnd[g.name] = g.vEnd
		}

		for _, d := range plans {
			items = append(items, &item{
				kind:        KindDial,
				path:        fmt.Sprintf("keyframes@%v", w.key.start),
				seq:         seq + len(items),
				start:       w.key.start,
				blockingEnd: w.key.start,
				duration:    w.key.duration,
				perRun:      w.key.duration,
				backForth:   1,
				repeats:     1,
				dial:        prop.NewDial(access, d.targets, d.start, d.end, d.vStart, d.vEnd),
			})
		}
	}
	return items
}
