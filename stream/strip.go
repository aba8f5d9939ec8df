package stream

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtl/prop"
)

// Properties of a Strip pixel.
const (
	PropColor      = "color"
	PropBrightness = "brightness"
)

type pixel struct {
	code       prop.Value
	color      colorful.Color
	brightness float64
	visible    bool
	class      string
}

// Strip is an LED strip whose pixels can be animated by a timeline. Each pixel is a
// prop.Target with a color, a brightness in [0,1], a visibility and a class list.
//
// Selectors are "all", "even", "odd", a class as ".name", a pixel index "N" or an
// inclusive range "A-B", and comma separated lists of those.
type Strip struct {
	pixels []pixel
}

// NewStrip creates a strip of n black, fully bright, visible pixels.
func NewStrip(n int) *Strip {
	s := new(Strip)
	s.pixels = make([]pixel, n)
	for i := range s.pixels {
		s.pixels[i] = pixel{code: "#000000", brightness: 1, visible: true}
	}
	return s
}

// Len returns the number of pixels.
func (s *Strip) Len() int {
	return len(s.pixels)
}

func (s *Strip) pixel(target prop.Target) *pixel {
	if int(target) < 0 || int(target) >= len(s.pixels) {
		return nil
	}
	return &s.pixels[target]
}

// Get returns a pixel property, or nil for unknown targets and properties.
func (s *Strip) Get(target prop.Target, name string) prop.Value {
	p := s.pixel(target)
	if p == nil {
		return nil
	}

	switch name {
	case PropColor:
		return p.code
	case PropBrightness:
		return p.brightness
	case prop.Visible:
		if p.visible {
			return 1.0
		}
		return 0.0
	case prop.Class:
		return p.class
	}
	return nil
}

// Set writes a pixel property. Unknown targets, properties and unreadable colours are
// ignored.
func (s *Strip) Set(target prop.Target, name string, value prop.Value) {
	p := s.pixel(target)
	if p == nil {
		return
	}

	switch name {
	case PropColor:
		str, ok := value.(string)
		if !ok {
			return
		}
		c, ok := parseColor(str)
		if !ok {
			return
		}
		p.code, p.color = str, c
	case PropBrightness:
		if n, ok := number(value); ok {
			p.brightness = n
		}
	case prop.Visible:
		if n, ok := number(value); ok {
			p.visible = n != 0
		}
	case prop.Class:
		if str, ok := value.(string); ok {
			p.class = str
		}
	}
}

func number(v prop.Value) (float64, bool) {
	parts := prop.Extract(v)
	if len(parts) == 0 || parts[0].IsColor() {
		return 0, false
	}
	return parts[0].Num, true
}

func parseColor(code string) (colorful.Color, bool) {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "#") {
		c, err := colorful.Hex(code)
		return c, err == nil
	}
	if !strings.HasPrefix(code, "rgb(") {
		return colorful.Color{}, false
	}
	return colorful.Color{
		R: prop.ColorComponent(code, 0) / 255,
		G: prop.ColorComponent(code, 1) / 255,
		B: prop.ColorComponent(code, 2) / 255,
	}.Clamped(), true
}

// Resolve maps a selector to pixel indices. Unknown parts select nothing.
func (s *Strip) Resolve(selector string) []prop.Target {
	var targets []prop.Target
	seen := make(map[prop.Target]bool)
	add := func(i int) {
		t := prop.Target(i)
		if i >= 0 && i < len(s.pixels) && !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}

	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "all":
			for i := range s.pixels {
				add(i)
			}
		case part == "even" || part == "odd":
			first := 0
			if part == "odd" {
				first = 1
			}
			for i := first; i < len(s.pixels); i += 2 {
				add(i)
			}
		case strings.HasPrefix(part, "."):
			class := part[1:]
			for i, p := range s.pixels {
				for _, tok := range strings.Fields(p.class) {
					if tok == class {
						add(i)
						break
					}
				}
			}
		default:
			lo, hi, ok := parseRange(part)
			if !ok {
				continue
			}
			lo = max(lo, 0)
			hi = min(hi, len(s.pixels)-1)
			for i := lo; i <= hi; i++ {
				add(i)
			}
		}
	}
	return targets
}

func parseRange(part string) (int, int, bool) {
	bounds := strings.SplitN(part, "-", 2)
	lo, err := strconv.Atoi(bounds[0])
	if err != nil {
		return 0, 0, false
	}
	if len(bounds) == 1 {
		return lo, lo, true
	}
	hi, err := strconv.Atoi(bounds[1])
	if err != nil || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// Render draws the strip. Hidden pixels are black; the others are their colour
// dimmed by their brightness.
func (s *Strip) Render() *Frame {
	f := NewFrame(len(s.pixels))
	black := colorful.Color{}
	for i, p := range s.pixels {
		if !p.visible {
			continue
		}
		f.pixels[i] = black.BlendRgb(p.color, p.brightness).Clamped()
	}
	return f
}
