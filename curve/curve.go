package curve

import (
	"sort"
)

// Point is a control point of a curve. Time and Position are normalised, Velocity is
// in position units per unit of normalised time.
type Point struct {
	Time     float64
	Position float64
	Velocity float64
}

// Func maps t in [0,1] to a value between start and end.
type Func func(start, end, t float64) float64

type segment struct {
	from, to float64
	interp   func(t float64) float64
}

// Build creates a Func from a list of control points. A point at Time 0 and one at
// Time 1 are added if missing.
func Build(points []Point) Func {
	keys := make([]Point, len(points))
	copy(keys, points)
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].Time < keys[j].Time
	})

	if len(keys) == 0 || keys[0].Time != 0 {
		keys = append([]Point{{Time: 0, Position: 0, Velocity: 0}}, keys...)
	}
	if keys[len(keys)-1].Time != 1 {
		keys = append(keys, Point{Time: 1, Position: 1, Velocity: 0})
	}

	segments := make([]segment, 0, len(keys)-1)
	for i := 1; i < len(keys); i++ {
		k1, k2 := keys[i-1], keys[i]
		span := k2.Time - k1.Time
		if span == 0 {
			span = 1
		}
		segments = append(segments, segment{
			from: k1.Time,
			to:   k2.Time,
			interp: func(t float64) float64 {
				return Interpolate(k1.Position, k2.Position, (t-k1.Time)/span, k1.Velocity*span, k2.Velocity*span)
			},
		})
	}

	return func(start, end, t float64) float64 {
		if t <= 0 {
			return start
		} else if t >= 1 {
			return end
		}

		d := end - start
		for _, s := range segments {
			if t < s.to {
				return start + d*s.interp(t)
			}
		}
		return end
	}
}

// Linear is the identity curve.
func Linear(start, end, t float64) float64 {
	if t <= 0 {
		return start
	} else if t >= 1 {
		return end
	}
	return start + t*(end-start)
}
