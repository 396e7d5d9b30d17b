// Package naming maps production class and method names to their
// test counterparts and back.
//
// The default convention marks a test class with a "Test" prefix on
// every path segment (Foo::Bar <-> TestFoo::TestBar). Reverse mode
// uses a suffix instead (Foo::Bar <-> FooTest::BarTest). Test methods
// are always prefixed with "test_".
package naming

import (
	"regexp"
	"strings"
)

const (
	// Marker is the test-class marker applied to every path segment.
	Marker = "Test"

	// Separator splits a module-qualified class name into segments.
	Separator = "::"

	// TestPrefix starts every test method name.
	TestPrefix = "test_"

	// ClassMethodPrefix marks a class-level (singleton) method.
	ClassMethodPrefix = "self."

	// classTestPrefix marks a class-level method inside a test name.
	classTestPrefix = "class_"

	// Constructor is exempt from test-to-method gap reporting.
	Constructor = "initialize"
)

// Convention selects between the prefix and suffix marker schemes.
// The zero value is the prefix scheme.
type Convention struct {
	// Reverse selects the suffix scheme (FooTest instead of TestFoo).
	Reverse bool
}

func (c Convention) hasMarker(segment string) bool {
	if c.Reverse {
		return strings.HasSuffix(segment, Marker)
	}
	return strings.HasPrefix(segment, Marker)
}

// IsTestClass reports whether every segment of name carries the test
// marker. "TestMod::TestCls" is a test class; "Mod::TestCls" is not.
func (c Convention) IsTestClass(name string) bool {
	for _, seg := range strings.Split(name, Separator) {
		if !c.hasMarker(seg) {
			return false
		}
	}
	return true
}

// Toggle converts a production class name to its test class name and
// a test class name back to its production name.
//
// Toggle is its own inverse unless a production segment already
// starts (or, in reverse mode, ends) with the marker as ordinary text.
func (c Convention) Toggle(name string) string {
	segs := strings.Split(name, Separator)
	strip := c.IsTestClass(name)
	for i, seg := range segs {
		switch {
		case strip && c.Reverse:
			segs[i] = strings.TrimSuffix(seg, Marker)
		case strip:
			segs[i] = strings.TrimPrefix(seg, Marker)
		case c.Reverse:
			segs[i] = seg + Marker
		default:
			segs[i] = Marker + seg
		}
	}
	return strings.Join(segs, Separator)
}

// MethodToTest returns the test method name expected for method.
//
//	foo      -> test_foo
//	foo?     -> test_foo_eh
//	foo=     -> test_foo_equals
//	save!    -> test_save_bang
//	[]=      -> test_index_equals
//	self.new -> test_class_new
func MethodToTest(method string) string {
	name, isClassMethod := strings.CutPrefix(method, ClassMethodPrefix)

	if op, ok := LookupOperator(name); ok {
		name = op.Alias()
	}

	switch {
	case strings.HasSuffix(name, "="):
		name = strings.TrimSuffix(name, "=") + "_equals"
	case strings.HasSuffix(name, "?"):
		name = strings.TrimSuffix(name, "?") + "_eh"
	case strings.HasSuffix(name, "!"):
		name = strings.TrimSuffix(name, "!") + "_bang"
	}

	if isClassMethod {
		name = classTestPrefix + name
	}
	return TestPrefix + name
}

// bangRe discards anything following "_bang"; variants of a bang
// method test all map back to the bang method.
var bangRe = regexp.MustCompile(`_bang.*$`)

// TestToMethod returns the method name that testName most likely
// exercises. known lists method names visible on the production class;
// the longest operator alias or known name that prefixes the candidate
// at an underscore boundary wins, so test_plus_overflow maps to "+"
// and test_each_pair maps to each_pair rather than each when both are
// known.
func TestToMethod(testName string, known []string) string {
	name := strings.TrimPrefix(testName, TestPrefix)

	// The class marker is removed first so that "class_" cannot be
	// mistaken for the start of "_equals" or "_bang" in operator tests
	// such as test_class_equals2.
	name, isClassMethod := strings.CutPrefix(name, classTestPrefix)

	if !strings.Contains(name, "index") {
		name = strings.Replace(name, "_equals", "=", 1)
	}
	name = bangRe.ReplaceAllString(name, "!")
	name = strings.Replace(name, "_eh", "?", 1)

	if prefix, ok := longestPrefix(name, known); ok {
		name = prefix
	}

	if op, ok := LookupAlias(name); ok {
		name = op.Symbol()
	}

	if isClassMethod {
		name = ClassMethodPrefix + name
	}
	return name
}

// longestPrefix finds the longest operator alias or known method that
// equals name or prefixes it followed by "_".
func longestPrefix(name string, known []string) (string, bool) {
	candidates := make([]string, 0, len(aliasesLongestFirst)+len(known))
	candidates = append(candidates, aliasesLongestFirst...)
	for _, k := range known {
		if k != "" {
			candidates = append(candidates, k)
		}
	}
	sortLongestFirst(candidates)

	for _, c := range candidates {
		if name == c || strings.HasPrefix(name, c+"_") {
			return c, true
		}
	}
	return "", false
}

// IsClassLevel reports whether a missing-method name denotes a
// class-level stub: either a singleton method ("self.foo") or a test
// for one ("test_class_foo").
func IsClassLevel(name string) bool {
	return strings.HasPrefix(name, ClassMethodPrefix) ||
		strings.HasPrefix(name, TestPrefix+classTestPrefix)
}

// SplitPath splits a qualified class name into its enclosing module
// path and the leaf class name.
func SplitPath(name string) (modules []string, leaf string) {
	segs := strings.Split(name, Separator)
	return segs[:len(segs)-1], segs[len(segs)-1]
}
