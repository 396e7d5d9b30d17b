// Package gap compares registered production classes with their test
// classes in both directions and records every method that lacks a
// naming-convention counterpart.
package gap

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/unbound-force/zentest/internal/introspect"
	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/registry"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

const (
	integrationPrefix = naming.TestPrefix + "integration_"
	utilityPrefix     = "util_"
)

// Options configures an Analyzer.
type Options struct {
	Convention naming.Convention

	// Introspector is consulted for built-in classes named by test
	// classes. Nil disables built-in handling.
	Introspector introspect.Introspector

	// Logger receives diagnostics; nil discards them.
	Logger *log.Logger
}

// Analyzer runs the gap analysis over one registry. It is single use:
// the missing registry and its error counter accumulate.
type Analyzer struct {
	reg     *registry.Registry
	missing *registry.Missing
	opts    Options
	logger  *log.Logger

	diagnostics []taxonomy.Diagnostic
}

// New returns an Analyzer reading reg and writing to missing.
func New(reg *registry.Registry, missing *registry.Missing, opts Options) *Analyzer {
	return &Analyzer{
		reg:     reg,
		missing: missing,
		opts:    opts,
		logger:  taxonomy.LoggerOrDiscard(opts.Logger),
	}
}

// Analyze checks every production class against its test class, then
// every test class against its production class. Classes are visited
// in sorted order.
func (a *Analyzer) Analyze() {
	for _, class := range a.reg.ClassNames() {
		a.AnalyzeClass(class)
	}
	for _, testClass := range a.reg.TestClassNames() {
		a.AnalyzeTestClass(testClass)
	}
}

// AnalyzeClass records the test methods missing for the production
// class name. A method is covered by a test named exactly after it or
// by one extending that name with "_word" suffixes.
func (a *Analyzer) AnalyzeClass(name string) {
	testClass := a.opts.Convention.Toggle(name)
	methods := a.reg.Classes[name].Sorted()

	testMethods, ok := a.reg.TestClasses[testClass]
	if !ok {
		a.record(taxonomy.Diagnostic{
			Kind:    taxonomy.MissingCounterpart,
			Class:   testClass,
			Message: fmt.Sprintf("test class %s does not exist", testClass),
		})
		for _, m := range methods {
			a.missing.Add(testClass, naming.MethodToTest(m))
		}
		return
	}

	for _, m := range methods {
		want := naming.MethodToTest(m)
		if testMethods.Has(want) {
			continue
		}

		matched, err := fuzzyMatch(want, testMethods)
		if err != nil {
			a.record(taxonomy.Diagnostic{
				Kind:    taxonomy.MalformedPatternInput,
				Class:   name,
				Method:  m,
				Message: fmt.Sprintf("cannot use %q as a pattern: %v", want, err),
			})
		}
		if matched {
			continue
		}

		a.missing.Add(testClass, want)
		a.record(taxonomy.Diagnostic{
			Kind:    taxonomy.MissingMethod,
			Class:   testClass,
			Method:  want,
			Message: "test method does not exist",
		})
	}
}

// fuzzyMatch reports whether any test method is want followed by one
// or more "_word" suffixes. want is used as a pattern as is; a name
// that does not compile is an error and counts as no match.
func fuzzyMatch(want string, testMethods registry.MethodSet) (bool, error) {
	re, err := regexp.Compile(want + `(_\w+)+$`)
	if err != nil {
		return false, err
	}
	for m := range testMethods {
		if re.MatchString(m) {
			return true, nil
		}
	}
	return false, nil
}

// AnalyzeTestClass records the production methods missing for the
// test class name. When the production class is a built-in it is
// first registered with every method and checked as a production
// class.
func (a *Analyzer) AnalyzeTestClass(name string) {
	class := a.opts.Convention.Toggle(name)
	testMethods := a.reg.TestClasses[name].Sorted()

	if in := a.opts.Introspector; in != nil && in.IsBuiltin(class) {
		if resolved, err := introspect.Process(a.reg, a.opts.Convention, in, class, true); err == nil {
			a.AnalyzeClass(resolved)
		}
	}

	methods, ok := a.reg.Classes[class]
	if !ok {
		a.record(taxonomy.Diagnostic{
			Kind:    taxonomy.MissingCounterpart,
			Class:   class,
			Message: fmt.Sprintf("class %s does not exist", class),
		})
		for _, tm := range testMethods {
			if isTestMethod(tm) {
				a.missing.Add(class, naming.TestToMethod(tm, nil))
			}
		}
		return
	}

	inherited := a.reg.Inherited(class)
	known := inherited.Sorted()
	defined := func(m string) bool { return methods.Has(m) || inherited.Has(m) }

	for _, tm := range testMethods {
		if !isTestMethod(tm) {
			if !strings.HasPrefix(tm, utilityPrefix) {
				a.record(taxonomy.Diagnostic{
					Kind:    taxonomy.UnrecognizedTestMethodName,
					Class:   name,
					Method:  tm,
					Message: "skipping method that is not a test",
				})
			}
			continue
		}

		candidate := naming.TestToMethod(tm, known)
		stem, found := stripToDefined(candidate, defined)
		if found || stem == naming.Constructor {
			continue
		}

		a.missing.Add(class, candidate)
		a.record(taxonomy.Diagnostic{
			Kind:    taxonomy.MissingMethod,
			Class:   class,
			Method:  candidate,
			Message: "method does not exist",
		})
	}
}

// stripToDefined removes trailing "_word" segments from name until
// defined reports a match or nothing more can be removed. It returns
// the last name tried.
func stripToDefined(name string, defined func(string) bool) (string, bool) {
	for name != "" {
		if defined(name) {
			return name, true
		}
		i := strings.LastIndex(name, "_")
		if i < 0 || i == len(name)-1 {
			break
		}
		name = name[:i]
	}
	return name, false
}

// isTestMethod reports whether name follows the test method convention
// and is not an integration test.
func isTestMethod(name string) bool {
	return strings.HasPrefix(name, naming.TestPrefix) && !strings.HasPrefix(name, integrationPrefix)
}

func (a *Analyzer) record(d taxonomy.Diagnostic) {
	d.Log(a.logger)
	a.diagnostics = append(a.diagnostics, d)
}

// Diagnostics returns the conditions recorded so far.
func (a *Analyzer) Diagnostics() []taxonomy.Diagnostic {
	return a.diagnostics
}
