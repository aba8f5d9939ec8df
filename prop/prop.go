// Package prop reads and writes animated properties of targets owned by the caller.
//
// The engine never looks inside a Target. Environments hand out handles from their own
// arena (pixel indices, records in a Store, ...) and resolve selectors to them.
package prop

// Target is an opaque handle to something with properties.
type Target int

// Value is a property value: a float64 or a template string such as "rotate(0 30 30)"
// or "#1fff02".
type Value = interface{}

// Access gets and sets properties on targets.
type Access interface {
	Get(target Target, name string) Value
	Set(target Target, name string, value Value)
}

// Resolver maps a selector to the targets it denotes.
type Resolver interface {
	Resolve(selector string) []Target
}

// Names of the properties written by side annotations.
const (
	Visible = "$visible"
	Class   = "$class"
)

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	}
	return 0, false
}
