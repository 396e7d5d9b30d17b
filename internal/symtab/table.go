// Package symtab is the precomputed symbol table that stands in for
// runtime class reflection. Every class and module known to a run is
// registered here with its declared methods and superclass; lookups
// resolve short names, walk the superclass chain, and filter the
// universal base-object methods.
package symtab

import (
	"sort"
	"strings"
)

// Kind distinguishes classes from modules.
type Kind string

// Kind constants.
const (
	KindClass  Kind = "class"
	KindModule Kind = "module"
)

// rootClass is the implicit superclass of every class without one.
const rootClass = "Object"

// Class is one symbol table entry.
type Class struct {
	// Name is the fully-qualified name ("A::B").
	Name string `yaml:"name" json:"name"`

	// Kind is class or module.
	Kind Kind `yaml:"kind" json:"kind"`

	// Superclass is the superclass name as written, if any.
	Superclass string `yaml:"superclass,omitempty" json:"superclass,omitempty"`

	// Includes lists mixed-in module names as written.
	Includes []string `yaml:"includes,omitempty" json:"includes,omitempty"`

	// Methods lists public instance methods declared on this class.
	Methods []string `yaml:"methods,omitempty" json:"methods,omitempty"`

	// SingletonMethods lists public class-level methods, without the
	// "self." marker.
	SingletonMethods []string `yaml:"singleton_methods,omitempty" json:"singleton_methods,omitempty"`

	// File is the source path the entry was extracted from.
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	builtin bool
}

// Table is an insertion-ordered set of classes.
type Table struct {
	order   []string
	classes map[string]*Class

	// base holds the universal methods every object responds to.
	base map[string]bool

	// singletonExclusions are class-level methods every class has.
	singletonExclusions map[string]bool
}

// New returns an empty table with no base-method filtering.
func New() *Table {
	return &Table{
		classes:             make(map[string]*Class),
		base:                make(map[string]bool),
		singletonExclusions: make(map[string]bool),
	}
}

// Add registers c. Adding a name that is already present merges the
// method lists, mirroring a reopened class; the first non-empty
// superclass wins.
func (t *Table) Add(c Class) {
	existing, ok := t.classes[c.Name]
	if !ok {
		cp := c
		cp.Methods = dedupe(c.Methods)
		cp.SingletonMethods = dedupe(c.SingletonMethods)
		cp.Includes = dedupe(c.Includes)
		if cp.Kind == "" {
			cp.Kind = KindClass
		}
		t.classes[c.Name] = &cp
		t.order = append(t.order, c.Name)
		return
	}

	if existing.Superclass == "" {
		existing.Superclass = c.Superclass
	}
	existing.Methods = dedupe(append(existing.Methods, c.Methods...))
	existing.SingletonMethods = dedupe(append(existing.SingletonMethods, c.SingletonMethods...))
	existing.Includes = dedupe(append(existing.Includes, c.Includes...))
	if existing.File == "" {
		existing.File = c.File
	}
}

// AddAll registers every class in order.
func (t *Table) AddAll(classes []Class) {
	for _, c := range classes {
		t.Add(c)
	}
}

// Lookup returns the entry registered under exactly name.
func (t *Table) Lookup(name string) (Class, bool) {
	c, ok := t.classes[name]
	if !ok {
		return Class{}, false
	}
	return *c, true
}

// Classes returns every entry in insertion order.
func (t *Table) Classes() []Class {
	out := make([]Class, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, *t.classes[n])
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.order) }

// Resolve maps a class name as written to the name it is registered
// under. An exact match wins; otherwise the first registered name
// ending in "::"+name is returned. When several nested classes share a
// short name the first one registered wins, which depends on the order
// sources were loaded.
func (t *Table) Resolve(name string) (string, bool) {
	name = strings.TrimPrefix(name, "::")
	if name == "" {
		return "", false
	}
	if _, ok := t.classes[name]; ok {
		return name, true
	}
	suffix := "::" + name
	for _, n := range t.order {
		if strings.HasSuffix(n, suffix) {
			return n, true
		}
	}
	return "", false
}

// IsBuiltin reports whether name is a built-in class.
func (t *Table) IsBuiltin(name string) bool {
	c, ok := t.classes[name]
	return ok && c.builtin
}

// KindOf returns the kind of name, or "" if unknown.
func (t *Table) KindOf(name string) string {
	resolved, ok := t.Resolve(name)
	if !ok {
		return ""
	}
	return string(t.classes[resolved].Kind)
}

// InstanceMethods returns the public methods declared directly on
// name: instance methods plus class-level methods marked "self.".
// Universal base methods are dropped unless full is set; the
// class-level methods every class has are always dropped.
func (t *Table) InstanceMethods(name string, full bool) []string {
	c, ok := t.classes[name]
	if !ok {
		return nil
	}

	var out []string
	for _, m := range c.Methods {
		if !full && t.base[m] {
			continue
		}
		out = append(out, m)
	}
	for _, m := range c.SingletonMethods {
		if t.base[m] || t.singletonExclusions[m] {
			continue
		}
		out = append(out, "self."+m)
	}
	sort.Strings(out)
	return out
}

// InheritedMethods returns every public instance method name reaches
// through its superclass chain and that chain's mixins, minus the
// universal base methods unless full is set. Modules inherit nothing.
func (t *Table) InheritedMethods(name string, full bool) []string {
	c, ok := t.classes[name]
	if !ok {
		return nil
	}

	super := t.superclassOf(c)
	if super == "" {
		return nil
	}

	seen := make(map[string]bool)
	methods := make(map[string]bool)
	t.collectAncestorMethods(super, seen, methods)

	var out []string
	for m := range methods {
		if !full && t.base[m] {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// superclassOf returns the resolved superclass of c, or "" for
// modules and the root of the hierarchy.
func (t *Table) superclassOf(c *Class) string {
	if c.Kind == KindModule {
		return ""
	}
	written := c.Superclass
	if written == "" {
		if c.Name == rootClass || c.Name == "BasicObject" {
			return ""
		}
		written = rootClass
	}
	if resolved, ok := t.Resolve(written); ok {
		return resolved
	}
	return ""
}

func (t *Table) collectAncestorMethods(name string, seen, methods map[string]bool) {
	if seen[name] {
		return
	}
	seen[name] = true

	c, ok := t.classes[name]
	if !ok {
		return
	}
	for _, m := range c.Methods {
		methods[m] = true
	}
	for _, inc := range c.Includes {
		if resolved, ok := t.Resolve(inc); ok {
			t.collectAncestorMethods(resolved, seen, methods)
		}
	}
	if super := t.superclassOf(c); super != "" {
		t.collectAncestorMethods(super, seen, methods)
	}
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
