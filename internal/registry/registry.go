// Package registry holds the class inventories discovered during one
// analysis run and the missing-method registry the gap analysis
// fills in.
//
// A Registry is not safe for concurrent use and must not be reused
// across runs.
package registry

import "sort"

// MethodSet is a set of method names.
type MethodSet map[string]struct{}

// NewMethodSet returns a set holding names.
func NewMethodSet(names ...string) MethodSet {
	s := make(MethodSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. A nil set is empty.
func (s MethodSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name.
func (s MethodSet) Add(name string) { s[name] = struct{}{} }

// Sorted returns the names in lexicographic order.
func (s MethodSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Registry stores production classes, test classes, and the methods
// each class inherits, keyed by fully-qualified class name.
type Registry struct {
	// Classes maps production class names to their own public methods.
	Classes map[string]MethodSet

	// TestClasses maps test class names to their own public methods.
	TestClasses map[string]MethodSet

	inherited map[string]MethodSet
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		Classes:     make(map[string]MethodSet),
		TestClasses: make(map[string]MethodSet),
		inherited:   make(map[string]MethodSet),
	}
}

// AddClass records a production class, replacing any earlier entry.
func (r *Registry) AddClass(name string, methods MethodSet) {
	r.Classes[name] = orEmpty(methods)
}

// AddTestClass records a test class, replacing any earlier entry.
func (r *Registry) AddTestClass(name string, methods MethodSet) {
	r.TestClasses[name] = orEmpty(methods)
}

// SetInherited records the methods name inherits from its ancestors.
func (r *Registry) SetInherited(name string, methods MethodSet) {
	r.inherited[name] = orEmpty(methods)
}

// Inherited returns the inherited methods of name. An unknown name
// gets a fresh empty set which is stored for later lookups.
func (r *Registry) Inherited(name string) MethodSet {
	s, ok := r.inherited[name]
	if !ok {
		s = MethodSet{}
		r.inherited[name] = s
	}
	return s
}

// ClassNames returns the production class names in sorted order.
func (r *Registry) ClassNames() []string { return sortedKeys(r.Classes) }

// TestClassNames returns the test class names in sorted order.
func (r *Registry) TestClassNames() []string { return sortedKeys(r.TestClasses) }

func orEmpty(s MethodSet) MethodSet {
	if s == nil {
		return MethodSet{}
	}
	return s
}

func sortedKeys(m map[string]MethodSet) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
