package registry

// Missing accumulates the (class, method) pairs that lack a
// naming-convention counterpart, along with the run's error counter.
//
// Every Add increments the counter, including repeats of a pair that
// is already present; the set itself never holds duplicates. Consumers
// rely on the counter reflecting every detection, so the two are
// allowed to diverge.
type Missing struct {
	methods map[string]MethodSet
	errors  int
}

// NewMissing returns an empty registry with a zero counter.
func NewMissing() *Missing {
	return &Missing{methods: make(map[string]MethodSet)}
}

// Add records that class lacks method and counts one error.
func (m *Missing) Add(class, method string) {
	m.errors++
	s, ok := m.methods[class]
	if !ok {
		s = MethodSet{}
		m.methods[class] = s
	}
	s.Add(method)
}

// Errors returns the number of Add calls so far.
func (m *Missing) Errors() int { return m.errors }

// Len returns the number of classes with at least one missing method.
func (m *Missing) Len() int { return len(m.methods) }

// Classes returns the class names with missing methods, sorted.
func (m *Missing) Classes() []string { return sortedKeys(m.methods) }

// Methods returns the missing methods of class, sorted.
func (m *Missing) Methods(class string) []string {
	return m.methods[class].Sorted()
}

// Snapshot copies the registry into a plain map of sorted slices.
func (m *Missing) Snapshot() map[string][]string {
	out := make(map[string][]string, len(m.methods))
	for class, s := range m.methods {
		out[class] = s.Sorted()
	}
	return out
}
