// Package scanner walks source text line by line, registering every
// declared class through an introspector and counting method
// definitions and assertions for the coverage ratio report.
package scanner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/unbound-force/zentest/internal/introspect"
	"github.com/unbound-force/zentest/internal/loader"
	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/registry"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

var (
	declRe   = regexp.MustCompile(`^\s*(?:class|module)\s+([\w:]+)`)
	skipRe   = regexp.MustCompile(`#\s*ZenTest SKIP`)
	fullRe   = regexp.MustCompile(`#\s*ZenTest FULL`)
	defRe    = regexp.MustCompile(`^\s*def`)
	assertRe = regexp.MustCompile(`assert|flunk`)
)

// Options configures a Scanner.
type Options struct {
	Convention   naming.Convention
	Introspector introspect.Introspector
	Registry     *registry.Registry

	// Logger receives diagnostics; nil discards them.
	Logger *log.Logger
}

// Scanner accumulates registrations and counters across sources.
type Scanner struct {
	opts   Options
	logger *log.Logger

	methodCounts map[string]int
	assertCounts map[string]int

	diagnostics []taxonomy.Diagnostic
}

// New returns a Scanner. opts.Introspector and opts.Registry must be
// set.
func New(opts Options) *Scanner {
	return &Scanner{
		opts:         opts,
		logger:       taxonomy.LoggerOrDiscard(opts.Logger),
		methodCounts: make(map[string]int),
		assertCounts: make(map[string]int),
	}
}

// Scan processes every source in order. Unresolvable classes and
// sources the introspector cannot load are recorded as diagnostics
// and skipped; Scan only fails when ctx is done or a line cannot be
// read.
func (s *Scanner) Scan(ctx context.Context, sources []loader.Source) error {
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scan canceled: %w", err)
		}
		if err := s.scanSource(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanSource(ctx context.Context, src loader.Source) error {
	var (
		current string
		loaded  bool
	)

	lines := bufio.NewScanner(bytes.NewReader(src.Content))
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lines.Scan() {
		line := lines.Text()

		if current != "" {
			switch {
			case defRe.MatchString(line):
				s.methodCounts[current]++
			case assertRe.MatchString(line):
				s.assertCounts[current]++
			}
		}

		m := declRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		current = m[1]

		if skipRe.MatchString(line) {
			s.logger.Debug("skipping class", "class", current, "file", src.Path)
			current = ""
			continue
		}
		full := fullRe.MatchString(line)

		if !loaded {
			loaded = true
			if err := s.opts.Introspector.Load(ctx, src); err != nil {
				s.record(taxonomy.Diagnostic{
					Kind:    taxonomy.SourceNotLoadable,
					Class:   current,
					Message: fmt.Sprintf("could not load %s: %v", src.Path, err),
				})
			}
		}

		resolved, err := introspect.Process(s.opts.Registry, s.opts.Convention, s.opts.Introspector, current, full)
		if err != nil {
			if !errors.Is(err, introspect.ErrClassNotFound) {
				return err
			}
			// The cursor stays on the name as written so its counters
			// are still kept.
			s.record(taxonomy.Diagnostic{
				Kind:    taxonomy.ClassNotResolvable,
				Class:   current,
				Message: "could not find class",
			})
			continue
		}
		current = resolved
	}
	if err := lines.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", src.Path, err)
	}
	return nil
}

func (s *Scanner) record(d taxonomy.Diagnostic) {
	d.Log(s.logger)
	s.diagnostics = append(s.diagnostics, d)
}

// Diagnostics returns the conditions recorded so far.
func (s *Scanner) Diagnostics() []taxonomy.Diagnostic {
	return s.diagnostics
}

// Coverage returns one row per production class with at least one
// counted method definition, comparing its method count with the
// assertion count of its test class. Rows are sorted by descending
// ratio; NaN sorts last and ties sort by class name.
func (s *Scanner) Coverage() []taxonomy.CoverageRow {
	var rows []taxonomy.CoverageRow
	for class, methods := range s.methodCounts {
		if s.opts.Convention.IsTestClass(class) {
			continue
		}
		asserts := s.assertCounts[s.opts.Convention.Toggle(class)]
		rows = append(rows, taxonomy.CoverageRow{
			Class:      class,
			Assertions: asserts,
			Methods:    methods,
			Ratio:      Ratio(asserts, methods),
		})
	}
	SortCoverage(rows)
	return rows
}

// Ratio returns asserts/methods*100. Zero methods yields +Inf, or NaN
// when asserts is zero too.
func Ratio(asserts, methods int) float64 {
	if methods == 0 {
		if asserts == 0 {
			return math.NaN()
		}
		return math.Inf(1)
	}
	return float64(asserts) / float64(methods) * 100
}

// SortCoverage orders rows by descending ratio with NaN last and ties
// broken by class name.
func SortCoverage(rows []taxonomy.CoverageRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Ratio, rows[j].Ratio
		switch {
		case math.IsNaN(a) && math.IsNaN(b):
			return rows[i].Class < rows[j].Class
		case math.IsNaN(a):
			return false
		case math.IsNaN(b):
			return true
		case a != b:
			return a > b
		}
		return rows[i].Class < rows[j].Class
	})
}
