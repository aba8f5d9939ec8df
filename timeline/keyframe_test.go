package timeline

import (
	"testing"

	"github.com/matt-g-everett/ledtl/prop"
)

type props = map[string]prop.Value

func storeEnv() (*prop.Store, *Env) {
	store := prop.NewStore()
	return store, &Env{Access: store, Resolver: store}
}

func countDials(tl *Timeline) int {
	n := 0
	for _, s := range tl.Spans() {
		if s.Kind == KindDial {
			n++
		}
	}
	return n
}

func getFloat(t *testing.T, store *prop.Store, target prop.Target, name string) float64 {
	t.Helper()
	v, ok := store.Get(target, name).(float64)
	if !ok {
		t.Fatalf("%s is not a number: %#v", name, store.Get(target, name))
	}
	return v
}

func TestKeyframeSecantVelocity(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("a")
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 0.0}}, Wait: 100},
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 10.0}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 30.0}}},
	}, env)

	assertFloat(t, tl.Duration(), 200)
	if n := countDials(tl); n != 2 {
		t.Fatalf("expected 2 dials, got %d", n)
	}

	tl.Evaluate(0, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 0)
	tl.Evaluate(50, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 3.125)
	tl.Evaluate(100, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 10)
	tl.Evaluate(150, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 21.875)
	tl.Evaluate(500, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 30)
	tl.Evaluate(50, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 3.125)
}

func TestKeyframeLinear(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("a")
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 0.0}, Linear: true}, Wait: 100},
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 10.0}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 30.0}}},
	}, env)

	tl.Evaluate(25, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 2.5)
	tl.Evaluate(50, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 5)
	tl.Evaluate(150, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 21.25)
}

func TestKeyframeExplicitVelocity(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("a")
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 0.0}}, Wait: 100},
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 10.0}, Velocity: props{"x": 0.2}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 10.0}}},
	}, env)

	// Interpolate(0, 10, 0.5, 0, 20) and Interpolate(10, 10, 0.5, 20, 0)
	tl.Evaluate(50, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 2.5)
	tl.Evaluate(150, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 12.5)
}

func TestKeyframeAuto(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("a")
	store.Set(a, "x", 4.0)
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "a", Auto: []string{"x"}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 8.0}}},
	}, env)

	tl.Evaluate(50, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 6)
	tl.Evaluate(0, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 4)
}

func TestKeyframeMergesTargets(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("leds", "a")
	b := store.Add("leds", "b")
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "leds", Props: props{"x": 0.0, "y": 0.0}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "leds", Props: props{"x": 10.0, "y": 20.0}}},
	}, env)

	if n := countDials(tl); n != 1 {
		t.Fatalf("expected a single dial, got %d", n)
	}
	tl.Evaluate(50, nil)
	for _, target := range []prop.Target{a, b} {
		assertFloat(t, getFloat(t, store, target, "x"), 5)
		assertFloat(t, getFloat(t, store, target, "y"), 10)
	}
}

func TestKeyframeSplitsDifferentMotion(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("a")
	b := store.Add("b")
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 0.0}}},
		Item{Payload: KeyframeOpen{Selector: "b", Props: props{"x": 100.0}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 10.0}}},
		Item{Payload: KeyframeStop{Selector: "b", Props: props{"x": 0.0}}},
	}, env)

	if n := countDials(tl); n != 2 {
		t.Fatalf("expected 2 dials, got %d", n)
	}
	tl.Evaluate(50, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 5)
	assertFloat(t, getFloat(t, store, b, "x"), 50)
}

func TestKeystopClosesTrack(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("a")
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 0.0}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 10.0}}, Wait: 100},
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 50.0}}},
	}, env)

	if n := countDials(tl); n != 1 {
		t.Fatalf("expected 1 dial, got %d", n)
	}
	tl.Evaluate(1000, nil)
	assertFloat(t, getFloat(t, store, a, "x"), 10)
}

func TestLoneKeyframesAnimateNothing(t *testing.T) {
	tests := []struct {
		name string
		desc Sequence
	}{
		{"keystop only", Sequence{Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 1.0}}, Wait: 10}}},
		{"single keyframe", Sequence{Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 1.0}}, Wait: 10}}},
		{"same time", Sequence{
			Item{Payload: KeyframeOpen{Selector: "a", Props: props{"x": 1.0}}},
			Item{Payload: KeyframeStop{Selector: "a", Props: props{"x": 2.0}}, Wait: 10},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, env := storeEnv()
			store.Add("a")
			tl := mustNew(t, tt.desc, env)
			if n := countDials(tl); n != 0 {
				t.Errorf("expected no dials, got %d", n)
			}
			tl.Evaluate(5, nil)
			if store.Sets() != 0 {
				t.Errorf("expected no writes, got %d", store.Sets())
			}
		})
	}
}

func TestKeyframeColor(t *testing.T) {
	store, env := storeEnv()
	a := store.Add("a")
	tl := mustNew(t, Sequence{
		Item{Payload: KeyframeOpen{Selector: "a", Props: props{"color": "#000000"}}, Wait: 100},
		Item{Payload: KeyframeStop{Selector: "a", Props: props{"color": "#ffffff"}}},
	}, env)

	tl.Evaluate(50, nil)
	if got := store.Get(a, "color"); got != "rgb(128,128,128)" {
		t.Errorf("expected rgb(128,128,128), got %v", got)
	}
}
