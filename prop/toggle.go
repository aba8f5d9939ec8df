package prop

import (
	"sort"
	"strings"
)

// ToggleFunc switches something on or off.
type ToggleFunc func(on bool)

// NewToggle remembers the last state and only calls onChange when it changes.
// The initial state is off.
func NewToggle(onChange func(on bool)) ToggleFunc {
	state := false
	return func(on bool) {
		if on == state {
			return
		}
		state = on
		onChange(on)
	}
}

// NewPropToggle sets the off properties on all targets when switched off and the on
// properties when switched on.
func NewPropToggle(access Access, targets []Target, off, on map[string]Value) ToggleFunc {
	return NewToggle(func(active bool) {
		props := off
		if active {
			props = on
		}
		setAll(access, targets, props)
	})
}

func setAll(access Access, targets []Target, props map[string]Value) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, target := range targets {
			access.Set(target, name, props[name])
		}
	}
}

// Side is a set of visibility and class changes that accompany an item while it is
// active. Add and Remove map a selector to a class name.
type Side struct {
	Show   []string
	Hide   []string
	Add    map[string]string
	Remove map[string]string
}

// Empty reports whether the annotation changes nothing.
func (s Side) Empty() bool {
	return len(s.Show) == 0 && len(s.Hide) == 0 && len(s.Add) == 0 && len(s.Remove) == 0
}

type classChange struct {
	targets []Target
	class   string
}

// NewSideToggle applies the side annotation when switched on and reverts it when
// switched off. Selectors are resolved once, here.
func NewSideToggle(access Access, resolver Resolver, side Side) ToggleFunc {
	show := resolveAll(resolver, side.Show)
	hide := resolveAll(resolver, side.Hide)
	add := resolveClasses(resolver, side.Add)
	remove := resolveClasses(resolver, side.Remove)

	return NewToggle(func(on bool) {
		visible, hidden := 1.0, 0.0
		if !on {
			visible, hidden = hidden, visible
		}
		for _, t := range show {
			access.Set(t, Visible, visible)
		}
		for _, t := range hide {
			access.Set(t, Visible, hidden)
		}
		for _, c := range add {
			for _, t := range c.targets {
				setClass(access, t, c.class, on)
			}
		}
		for _, c := range remove {
			for _, t := range c.targets {
				setClass(access, t, c.class, !on)
			}
		}
	})
}

func resolveAll(resolver Resolver, selectors []string) []Target {
	var targets []Target
	for _, s := range selectors {
		targets = append(targets, resolver.Resolve(s)...)
	}
	return targets
}

func resolveClasses(resolver Resolver, classes map[string]string) []classChange {
	selectors := make([]string, 0, len(classes))
	for s := range classes {
		selectors = append(selectors, s)
	}
	sort.Strings(selectors)

	changes := make([]classChange, 0, len(selectors))
	for _, s := range selectors {
		changes = append(changes, classChange{targets: resolver.Resolve(s), class: classes[s]})
	}
	return changes
}

func setClass(access Access, target Target, class string, present bool) {
	current, _ := access.Get(target, Class).(string)
	tokens := strings.Fields(current)
	kept := tokens[:0]
	for _, tok := range tokens {
		if tok != class {
			kept = append(kept, tok)
		}
	}
	if present {
		kept = append(kept, class)
	}
	access.Set(target, Class, strings.Join(kept, " "))
}
