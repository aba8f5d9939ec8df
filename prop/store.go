package prop

// Store is an in-memory property environment. Each Add hands out a new Target that
// can be found again through any of the selectors it was added with.
type Store struct {
	values    []map[string]Value
	selectors map[string][]Target
	sets      int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := new(Store)
	s.selectors = make(map[string][]Target)
	return s
}

// Add registers a new target under the given selectors.
func (s *Store) Add(selectors ...string) Target {
	t := Target(len(s.values))
	s.values = append(s.values, make(map[string]Value))
	for _, sel := range selectors {
		s.selectors[sel] = append(s.selectors[sel], t)
	}
	return t
}

// Get returns a property, or nil if it was never set.
func (s *Store) Get(target Target, name string) Value {
	if int(target) < 0 || int(target) >= len(s.values) {
		return nil
	}
	return s.values[target][name]
}

// Set writes a property. Unknown targets are ignored.
func (s *Store) Set(target Target, name string, value Value) {
	if int(target) < 0 || int(target) >= len(s.values) {
		return
	}
	s.values[target][name] = value
	s.sets++
}

// Resolve returns the targets added under selector.
func (s *Store) Resolve(selector string) []Target {
	return s.selectors[selector]
}

// Sets counts the writes made so far.
func (s *Store) Sets() int {
	return s.sets
}
