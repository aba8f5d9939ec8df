package curve

import (
	"math"
	"sort"

	"github.com/fogleman/ease"
)

var constructed = map[string][]Point{
	"linear":        {{0, 0, 1}, {1, 1, 1}},
	"inOut":         {},
	"in":            {{1, 1, 1}},
	"out":           {{0, 0, 1}},
	"softInSoftOut": {{0.5, 0.5, 2.5}},
	"softInOut":     {{0.7, 0.5, 2}},
	"inSoftOut":     {{0.3, 0.5, 2}},
	"softIn":        {{0.7, 0.4, 1.5}, {1, 1, 1}},
	"softOut":       {{0, 0, 1}, {0.3, 0.6, 1.5}},
	"stop":          {{0, 0, 1}, {0.5, 0.5, 0}, {1, 1, 1}},
	"inSwing":       {{0.3, -0.1, 0}, {1, 1, 1}},
	"outSwing":      {{0, 0, 1}, {0.7, 1.1, 0}},
	"inOutSwing":    {{0.25, -0.1, 0}, {0.75, 1.1, 0}},
	"inElastic":     {{0.1, -0.05, 0}, {0.3, 0.15, 0}, {0.5, -0.25, 0}, {1, 1, 3}},
	"outElastic":    {{0, 0, 3}, {0.5, 1.25, 0}, {0.7, 0.85, 0}, {0.9, 1.05, 0}},
	"inOutElastic":  {{0.1, -0.05, 0}, {0.2, 0.1, 0}, {0.3, -0.2, 0}, {0.7, 1.2, 0}, {0.8, 0.9, 0}, {0.9, 1.05, 0}},
	"bounce": {
		{0, 0, 0.25},
		{0.125, 0.125, 0}, {0.249999999, 0, -0.25}, {0.25, 0, 0.5},
		{0.375, 0.25, 0}, {0.499999999, 0, -0.5}, {0.5, 0, 1},
		{0.625, 0.5, 0}, {0.749999999, 0, -1}, {0.75, 0, 5},
	},
}

var shaped = map[string]func(float64) float64{
	"sineIn":    ease.InSine,
	"sineOut":   ease.OutSine,
	"sineInOut": ease.InOutSine,
	"sineSwingUp": func(t float64) float64 {
		return t + 0.25*math.Sin(t*2*math.Pi)
	},
	"sineSwingDown": func(t float64) float64 {
		return t - 0.25*math.Sin(t*2*math.Pi)
	},
	"quadIn":     ease.InQuad,
	"quadOut":    ease.OutQuad,
	"quadInOut":  ease.InOutQuad,
	"cubicIn":    ease.InCubic,
	"cubicOut":   ease.OutCubic,
	"cubicInOut": ease.InOutCubic,
}

var catalog = buildCatalog()

func buildCatalog() map[string]Func {
	c := make(map[string]Func, len(constructed)+len(shaped))
	for name, points := range constructed {
		c[name] = Build(points)
	}
	for name, f := range shaped {
		c[name] = fromShape(f)
	}
	return c
}

func fromShape(f func(float64) float64) Func {
	return func(start, end, t float64) float64 {
		if t <= 0 {
			return start
		} else if t >= 1 {
			return end
		}
		return start + f(t)*(end-start)
	}
}

// Ease looks up a named easing curve.
func Ease(name string) (Func, bool) {
	f, ok := catalog[name]
	return f, ok
}

// Names lists the catalog in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
