package prop

import (
	"math"
	"sort"

	"github.com/matt-g-everett/ledtl/curve"
)

// DialFunc applies the state of an animation at normalised time t in [0,1].
type DialFunc func(t float64)

type dialTrack struct {
	name     string
	template Value
	from     []Component
	to       []Component
	vFrom    []float64
	vTo      []float64
}

// NewDial creates a DialFunc that moves every property of start towards its value in
// end and sets it on all targets. Velocities are given per property either as a single
// number, which applies to the first component, or as a list aligned to the components.
// A nil vEnd reuses vStart. Missing velocities are 0 and missing end components are 0.
//
// start and end must have the same number of components per property.
func NewDial(access Access, targets []Target, start, end, vStart, vEnd map[string]Value) DialFunc {
	if vEnd == nil {
		vEnd = vStart
	}

	names := make([]string, 0, len(start))
	for name := range start {
		names = append(names, name)
	}
	sort.Strings(names)

	tracks := make([]dialTrack, len(names))
	for i, name := range names {
		from := Extract(start[name])
		var to []Component
		if v, ok := end[name]; ok {
			to = Extract(v)
		}
		tracks[i] = dialTrack{
			name:     name,
			template: start[name],
			from:     from,
			to:       to,
			vFrom:    velocities(vStart[name], len(from)),
			vTo:      velocities(vEnd[name], len(from)),
		}
	}

	return func(t float64) {
		for i := range tracks {
			v := tracks[i].at(t)
			for _, target := range targets {
				access.Set(target, tracks[i].name, v)
			}
		}
	}
}

func (d *dialTrack) at(t float64) Value {
	parts := make([]Value, len(d.from))
	for i, from := range d.from {
		var to Component
		if i < len(d.to) {
			to = d.to[i]
		}

		switch {
		case t <= 0:
			parts[i] = from.Value()
		case t >= 1:
			parts[i] = to.Value()
		case from.IsColor():
			parts[i] = FormatRGB(
				curve.Interpolate(ColorComponent(from.Color, 0), ColorComponent(to.Color, 0), t, d.vFrom[i], d.vTo[i]),
				curve.Interpolate(ColorComponent(from.Color, 1), ColorComponent(to.Color, 1), t, d.vFrom[i], d.vTo[i]),
				curve.Interpolate(ColorComponent(from.Color, 2), ColorComponent(to.Color, 2), t, d.vFrom[i], d.vTo[i]))
		default:
			parts[i] = curve.Interpolate(from.Num, to.Num, t, d.vFrom[i], d.vTo[i])
		}
	}
	return Reinject(d.template, parts)
}

func velocities(v Value, n int) []float64 {
	out := make([]float64, n)
	if v == nil || n == 0 {
		return out
	}

	switch list := v.(type) {
	case []float64:
		copy(out, list)
	case []interface{}:
		for i := 0; i < n && i < len(list); i++ {
			out[i], _ = toFloat(list[i])
		}
	default:
		out[0], _ = toFloat(v)
	}
	return out
}

// Eased remaps the time of a dial through an easing curve.
func Eased(d DialFunc, f curve.Func) DialFunc {
	return func(t float64) {
		d(f(0, 1, t))
	}
}

func roundByte(v float64) int {
	return int(math.Max(0, math.Min(255, math.Round(v))))
}
