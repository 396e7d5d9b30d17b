// Package engine runs one analysis: scan sources, analyze gaps in
// both directions, and generate stub specifications.
package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/unbound-force/zentest/internal/config"
	"github.com/unbound-force/zentest/internal/gap"
	"github.com/unbound-force/zentest/internal/introspect"
	"github.com/unbound-force/zentest/internal/loader"
	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/registry"
	"github.com/unbound-force/zentest/internal/rubysym"
	"github.com/unbound-force/zentest/internal/scanner"
	"github.com/unbound-force/zentest/internal/stub"
	"github.com/unbound-force/zentest/internal/symtab"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

// Options configures a run.
type Options struct {
	// Config is the run's configuration snapshot.
	Config config.Config

	// Introspector answers class questions. Nil builds one with
	// NewIntrospector(Config).
	Introspector introspect.Introspector

	// Logger receives diagnostics; nil discards them.
	Logger *log.Logger

	// Version is recorded in the result metadata.
	Version string
}

// NewIntrospector returns the default introspector: the built-in Ruby
// classes, the symbol file named by cfg.Symbols if any, and classes
// extracted from sources as they are loaded.
func NewIntrospector(cfg config.Config) (*symtab.Introspector, error) {
	table, err := symtab.NewWithBuiltins()
	if err != nil {
		return nil, err
	}
	if cfg.Symbols != "" {
		if err := table.LoadFile(cfg.Symbols); err != nil {
			return nil, fmt.Errorf("loading symbols: %w", err)
		}
	}
	return symtab.NewIntrospector(table, rubysym.NewParser()), nil
}

// run holds the per-run state. A fresh run is built for every call so
// the missing registry and its counter never carry over.
type run struct {
	opts     Options
	conv     naming.Convention
	in       introspect.Introspector
	logger   *log.Logger
	reg      *registry.Registry
	missing  *registry.Missing
	started  time.Time
	coverage []taxonomy.CoverageRow
	diags    []taxonomy.Diagnostic
}

func newRun(opts Options) (*run, error) {
	in := opts.Introspector
	if in == nil {
		def, err := NewIntrospector(opts.Config)
		if err != nil {
			return nil, err
		}
		in = def
	}
	return &run{
		opts:    opts,
		conv:    naming.Convention{Reverse: opts.Config.Reverse},
		in:      in,
		logger:  taxonomy.LoggerOrDiscard(opts.Logger),
		reg:     registry.New(),
		missing: registry.NewMissing(),
		started: time.Now(),
	}, nil
}

// Fix scans sources, analyzes every class found, and returns the
// coverage table, stub specifications, and error count.
func Fix(ctx context.Context, sources []loader.Source, opts Options) (*taxonomy.Result, error) {
	r, err := newRun(opts)
	if err != nil {
		return nil, err
	}

	sc := scanner.New(scanner.Options{
		Convention:   r.conv,
		Introspector: r.in,
		Registry:     r.reg,
		Logger:       r.logger,
	})
	if err := sc.Scan(ctx, sources); err != nil {
		return nil, fmt.Errorf("scanning sources: %w", err)
	}
	r.coverage = sc.Coverage()
	r.diags = append(r.diags, sc.Diagnostics()...)

	return r.finish(), nil
}

// AnalyzeClasses analyzes the named classes without scanning any
// source. Names the introspector cannot resolve are recorded as
// diagnostics and skipped. The result has no coverage table.
func AnalyzeClasses(ctx context.Context, names []string, opts Options) (*taxonomy.Result, error) {
	r, err := newRun(opts)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis canceled: %w", err)
		}
		if _, err := introspect.Process(r.reg, r.conv, r.in, name, false); err != nil {
			if !errors.Is(err, introspect.ErrClassNotFound) {
				return nil, err
			}
			d := taxonomy.Diagnostic{
				Kind:    taxonomy.ClassNotResolvable,
				Class:   name,
				Message: "could not find class",
			}
			d.Log(r.logger)
			r.diags = append(r.diags, d)
		}
	}

	return r.finish(), nil
}

func (r *run) finish() *taxonomy.Result {
	a := gap.New(r.reg, r.missing, gap.Options{
		Convention:   r.conv,
		Introspector: r.in,
		Logger:       r.logger,
	})
	a.Analyze()
	r.diags = append(r.diags, a.Diagnostics()...)

	res := &taxonomy.Result{
		Coverage:    r.coverage,
		Stubs:       stub.Generate(r.missing, r.conv),
		Errors:      r.missing.Errors(),
		Diagnostics: r.diags,
		Metadata: taxonomy.Metadata{
			ZentestVersion: r.opts.Version,
			GoVersion:      runtime.Version(),
			RunID:          uuid.NewString(),
			Reverse:        r.conv.Reverse,
			Timestamp:      r.started,
			Duration:       time.Since(r.started),
			Warnings:       warnings(r.diags),
		},
	}
	if res.Coverage == nil {
		res.Coverage = []taxonomy.CoverageRow{}
	}
	if res.Stubs == nil {
		res.Stubs = []taxonomy.StubSpec{}
	}
	if res.Diagnostics == nil {
		res.Diagnostics = []taxonomy.Diagnostic{}
	}
	if r.opts.Config.Verbose {
		res.FoundClasses, res.FoundTestClasses = stub.Discovered(r.reg)
	}

	r.logger.Debug("analysis complete",
		"classes", len(r.reg.Classes),
		"test_classes", len(r.reg.TestClasses),
		"errors", res.Errors)
	return res
}

// warnings returns the messages of diagnostics reported above debug
// level.
func warnings(diags []taxonomy.Diagnostic) []string {
	out := []string{}
	for _, d := range diags {
		if taxonomy.SeverityOf(d.Kind) == taxonomy.SeverityDebug {
			continue
		}
		msg := d.Message
		if d.Class != "" {
			msg = d.Class + ": " + msg
		}
		out = append(out, msg)
	}
	return out
}
