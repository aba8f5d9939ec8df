package prop

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	interpolatable = regexp.MustCompile(`(-?[0-9]+(?:\.[0-9]+)?)|(?:#\w{3}(?:\w{3})?)|(?:rgb\([^\)]+\))`)
	leadingNumber  = regexp.MustCompile(`-?[0-9]+(?:\.[0-9]+)?`)
)

// Component is one animatable part of a value: a number or a colour literal.
type Component struct {
	Num   float64
	Color string
}

// IsColor reports whether the component is a colour literal.
func (c Component) IsColor() bool {
	return c.Color != ""
}

// Value returns the component as it appears in a template.
func (c Component) Value() Value {
	if c.IsColor() {
		return c.Color
	}
	return c.Num
}

// IsColor reports whether s is written as '#rgb', '#rrggbb' or 'rgb(r,g,b)'.
func IsColor(s string) bool {
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, "rgb(")
}

// Extract returns the numbers and colours of v in the order they appear.
// A numeric v yields a single component.
func Extract(v Value) []Component {
	if n, ok := toFloat(v); ok {
		return []Component{{Num: n}}
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}

	matches := interpolatable.FindAllStringSubmatch(s, -1)
	parts := make([]Component, 0, len(matches))
	for _, m := range matches {
		if m[1] != "" {
			n, _ := strconv.ParseFloat(m[1], 64)
			parts = append(parts, Component{Num: n})
		} else {
			parts = append(parts, Component{Color: m[0]})
		}
	}
	return parts
}

// Reinject replaces the numbers and colours of template, in scan order, with parts.
// A numeric template is replaced by parts[0]. Matches without a part keep their text.
func Reinject(template Value, parts []Value) Value {
	s, ok := template.(string)
	if !ok {
		if len(parts) == 0 {
			return template
		}
		return parts[0]
	}

	i := 0
	return interpolatable.ReplaceAllStringFunc(s, func(match string) string {
		if i >= len(parts) {
			return match
		}
		p := parts[i]
		i++
		return format(p)
	})
}

func format(v Value) string {
	if n, ok := toFloat(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// ColorComponent reads channel index (0 red, 1 green, 2 blue) of a colour written as
// '#rgb', '#rrggbb' or 'rgb(r,g,b)', in the range 0..255.
func ColorComponent(code string, index int) float64 {
	if strings.HasPrefix(code, "#") {
		c, err := colorful.Hex(code)
		if err != nil {
			return 0
		}
		r, g, b := c.RGB255()
		switch index {
		case 0:
			return float64(r)
		case 1:
			return float64(g)
		case 2:
			return float64(b)
		}
		return 0
	}

	channels := strings.Split(code, ",")
	if index < 0 || index >= len(channels) {
		return 0
	}
	n, err := strconv.ParseFloat(leadingNumber.FindString(channels[index]), 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatRGB writes a colour as 'rgb(r,g,b)' with channels rounded to whole bytes.
func FormatRGB(r, g, b float64) string {
	return "rgb(" + strconv.Itoa(roundByte(r)) + "," + strconv.Itoa(roundByte(g)) + "," + strconv.Itoa(roundByte(b)) + ")"
}
