package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/unbound-force/zentest/internal/stub"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

const indentUnit = "  "

// testCaseBase is the superclass rendered for test class stubs.
const testCaseBase = "Test::Unit::TestCase"

// KindFunc reports whether a qualified name is a "class" or "module".
// Any other answer renders as a module.
type KindFunc func(name string) string

// RubyOptions configures WriteRuby.
type RubyOptions struct {
	// Version is written in the generated-code header.
	Version string

	// KindOf decides the keyword of enclosing path segments. Nil
	// renders every enclosing segment as a module.
	KindOf KindFunc

	// Verbose adds the discovered class lists.
	Verbose bool
}

// Header returns the first line of generated Ruby output.
func Header(version string) string {
	return "# Code generated by zentest " + version
}

// WriteRuby writes the result as a Ruby source skeleton: a header, the
// coverage table as comments (its heading even when there are no rows),
// one class skeleton per stub, and the error summary.
func WriteRuby(w io.Writer, result *taxonomy.Result, opts RubyOptions) error {
	var lines []string
	lines = append(lines, Header(opts.Version))

	lines = append(lines, fmt.Sprintf("# %25s: %4s / %4s = %6s%%", "classname", "asrt", "meth", "ratio"))
	for _, row := range result.Coverage {
		lines = append(lines, fmt.Sprintf("# %25s: %4d / %4d = %6.2f%%", row.Class, row.Assertions, row.Methods, row.Ratio))
	}

	if opts.Verbose {
		lines = append(lines,
			"# found classes: "+strings.Join(result.FoundClasses, ", "),
			"# found test classes: "+strings.Join(result.FoundTestClasses, ", "))
	}

	if len(result.Stubs) > 0 {
		lines = append(lines, "", "require 'test/unit'", "")
	}

	for _, spec := range result.Stubs {
		lines = append(lines, RenderStub(spec, opts.KindOf), "")
	}

	lines = append(lines, "# "+stub.Summary(result.Errors), "")

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// RenderStub renders one class skeleton. Enclosing path segments open
// as modules or classes, test classes inherit from
// Test::Unit::TestCase, and each method body raises
// NotImplementedError. Class-level methods come first. Instance
// methods named pretty_print* are left out.
func RenderStub(spec taxonomy.StubSpec, kindOf KindFunc) string {
	var lines []string
	indent := 0
	pad := func() string { return strings.Repeat(indentUnit, indent) }

	prefix := ""
	for _, mod := range spec.ModulePath {
		if prefix == "" {
			prefix = mod
		} else {
			prefix += "::" + mod
		}
		lines = append(lines, pad()+segmentKeyword(prefix, kindOf)+" "+mod)
		indent++
	}

	decl := "class " + spec.ClassName
	if spec.IsTestClass {
		decl += " < " + testCaseBase
	}
	lines = append(lines, pad()+decl)
	indent++

	var defs []string
	for _, m := range spec.ClassMethods {
		defs = append(defs, renderMethod(m, pad()))
	}
	for _, m := range spec.InstanceMethods {
		if strings.Contains(m, "pretty_print") {
			continue
		}
		defs = append(defs, renderMethod(m, pad()))
	}
	if len(defs) > 0 {
		lines = append(lines, strings.Join(defs, "\n\n"))
	}

	indent--
	lines = append(lines, pad()+"end")
	for range spec.ModulePath {
		indent--
		lines = append(lines, pad()+"end")
	}
	return strings.Join(lines, "\n")
}

func segmentKeyword(name string, kindOf KindFunc) string {
	if kindOf != nil && kindOf(name) == "class" {
		return "class"
	}
	return "module"
}

func renderMethod(name, pad string) string {
	sig := "def " + name
	if !strings.HasPrefix(name, "test") {
		sig += "(*args)"
	}
	return pad + sig + "\n" +
		pad + indentUnit + fmt.Sprintf("raise NotImplementedError, 'not yet implemented: %s'", name) + "\n" +
		pad + "end"
}
