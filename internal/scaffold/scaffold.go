// Package scaffold writes each stub class skeleton of an analysis
// result to its own Ruby file under a target directory.
package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/report"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

// Options configures the scaffold operation.
type Options struct {
	// TargetDir is the root directory to scaffold into.
	// Defaults to the current working directory.
	TargetDir string

	// Force overwrites existing files when true.
	// When false, existing files are skipped.
	Force bool

	// Version is the zentest version string written in the marker
	// header. Defaults to "dev".
	Version string

	// KindOf decides the keyword of enclosing path segments.
	KindOf report.KindFunc

	// Stdout is the writer for summary output.
	// Defaults to os.Stdout.
	Stdout io.Writer
}

// Result reports what the scaffold operation did. Paths are relative
// to the target directory.
type Result struct {
	// Created lists files that were written for the first time.
	Created []string

	// Skipped lists files that already existed and were not
	// overwritten (Force was false).
	Skipped []string

	// Overwritten lists files that existed and were replaced
	// (Force was true).
	Overwritten []string
}

// Run writes one file per stub in result:
//
//	<TargetDir>/<snake_case path>.rb
//
// so Foo::BarBaz lands in foo/bar_baz.rb. Every file starts with the
// generated-code header. Test class files also require test/unit.
//
// If a file already exists and opts.Force is false, the file is
// skipped.
func Run(result *taxonomy.Result, opts Options) (*Result, error) {
	if opts.TargetDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		opts.TargetDir = cwd
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	out := &Result{}
	for _, spec := range result.Stubs {
		rel := FileName(spec.FullName)
		path := filepath.Join(opts.TargetDir, rel)

		_, statErr := os.Stat(path)
		exists := statErr == nil
		if exists && !opts.Force {
			out.Skipped = append(out.Skipped, rel)
			continue
		}

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
		if err := os.WriteFile(path, []byte(render(spec, opts)), 0o644); err != nil {
			return nil, fmt.Errorf("creating %s: %w", rel, err)
		}

		if exists {
			out.Overwritten = append(out.Overwritten, rel)
		} else {
			out.Created = append(out.Created, rel)
		}
	}

	printSummary(opts.Stdout, out)
	return out, nil
}

func render(spec taxonomy.StubSpec, opts Options) string {
	var b strings.Builder
	b.WriteString(report.Header(opts.Version))
	b.WriteString("\n\n")
	if spec.IsTestClass {
		b.WriteString("require 'test/unit'\n\n")
	}
	b.WriteString(report.RenderStub(spec, opts.KindOf))
	b.WriteString("\n")
	return b.String()
}

// FileName returns the relative file path for a qualified class name:
// one directory per enclosing module and a snake_case leaf.
func FileName(name string) string {
	segs := strings.Split(name, naming.Separator)
	for i, seg := range segs {
		segs[i] = snakeCase(seg)
	}
	return filepath.Join(segs...) + ".rb"
}

// snakeCase converts a CamelCase constant name. Acronym runs stay
// together: HTTPServer becomes http_server.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// printSummary writes a human-readable summary of the scaffold
// operation to w.
func printSummary(w io.Writer, r *Result) {
	if len(r.Created)+len(r.Skipped)+len(r.Overwritten) == 0 {
		fmt.Fprintln(w, "Nothing to scaffold: no missing methods.")
		return
	}

	fmt.Fprintln(w, "Stub files:")
	for _, f := range r.Created {
		fmt.Fprintf(w, "  created: %s\n", f)
	}
	for _, f := range r.Skipped {
		fmt.Fprintf(w, "  skipped: %s (already exists)\n", f)
	}
	for _, f := range r.Overwritten {
		fmt.Fprintf(w, "  overwritten: %s\n", f)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "%d file(s) skipped (use --force to overwrite).\n", len(r.Skipped))
	}
}
