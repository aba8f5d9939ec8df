package stream

import (
	"reflect"
	"testing"

	"github.com/matt-g-everett/ledtl/prop"
)

func targets(ids ...int) []prop.Target {
	out := make([]prop.Target, len(ids))
	for i, id := range ids {
		out[i] = prop.Target(id)
	}
	return out
}

func TestStripResolve(t *testing.T) {
	s := NewStrip(5)
	s.Set(1, prop.Class, "lit big")
	s.Set(3, prop.Class, "lit")

	tests := []struct {
		selector string
		want     []prop.Target
	}{
		{"all", targets(0, 1, 2, 3, 4)},
		{"even", targets(0, 2, 4)},
		{"odd", targets(1, 3)},
		{"2", targets(2)},
		{"1-3", targets(1, 2, 3)},
		{"4, 0,4", targets(4, 0)},
		{"3-9", targets(3, 4)},
		{"0-2000000000", targets(0, 1, 2, 3, 4)},
		{"6-2000000000", nil},
		{".lit", targets(1, 3)},
		{".big,even", targets(1, 0, 2, 4)},
		{"7", nil},
		{"3-1", nil},
		{"head", nil},
	}

	for _, tt := range tests {
		if got := s.Resolve(tt.selector); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.selector, tt.want, got)
		}
	}
}

func TestStripProperties(t *testing.T) {
	s := NewStrip(2)

	if s.Get(0, PropColor) != "#000000" || s.Get(0, PropBrightness) != 1.0 || s.Get(0, prop.Visible) != 1.0 {
		t.Errorf("unexpected defaults")
	}

	s.Set(0, PropColor, "#ff0000")
	s.Set(1, PropColor, "rgb(0, 255, 0)")
	s.Set(1, PropColor, "not a colour")
	s.Set(5, PropColor, "#ffffff")

	if s.Get(0, PropColor) != "#ff0000" || s.Get(1, PropColor) != "rgb(0, 255, 0)" {
		t.Errorf("unexpected colours %v %v", s.Get(0, PropColor), s.Get(1, PropColor))
	}
	if s.Get(5, PropColor) != nil || s.Get(0, "size") != nil {
		t.Errorf("unknown targets and properties should read as nil")
	}
}

func TestStripRender(t *testing.T) {
	s := NewStrip(3)
	s.Set(0, PropColor, "#ff0000")
	s.Set(1, PropColor, "rgb(0,255,0)")
	s.Set(1, PropBrightness, 0.5)
	s.Set(2, PropColor, "#0000ff")
	s.Set(2, prop.Visible, 0)

	data, _ := s.Render().MarshalBinary()
	want := []byte{3, 0, 255, 0, 0, 0, 128, 0, 0, 0, 0}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("expected %v, got %v", want, data)
	}
}
