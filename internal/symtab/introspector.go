package symtab

import (
	"context"
	"fmt"

	"github.com/unbound-force/zentest/internal/loader"
)

// Extractor pulls class declarations out of one source unit.
type Extractor interface {
	Extract(ctx context.Context, src loader.Source) ([]Class, error)
}

// Introspector answers class questions from a Table, filling it from
// sources through an Extractor as they are loaded. It satisfies
// introspect.Introspector.
type Introspector struct {
	table     *Table
	extractor Extractor
	loaded    map[string]bool
}

// NewIntrospector returns an Introspector over table. A nil extractor
// makes Load a no-op, which suits a fully precomputed table.
func NewIntrospector(table *Table, extractor Extractor) *Introspector {
	return &Introspector{
		table:     table,
		extractor: extractor,
		loaded:    make(map[string]bool),
	}
}

// Table returns the underlying table.
func (in *Introspector) Table() *Table { return in.table }

// Load extracts the classes declared in src into the table. A named
// file is extracted at most once; standard input is extracted every
// time it is loaded.
func (in *Introspector) Load(ctx context.Context, src loader.Source) error {
	if in.extractor == nil {
		return nil
	}
	if !src.IsStdin() {
		if in.loaded[src.Path] {
			return nil
		}
		in.loaded[src.Path] = true
	}

	classes, err := in.extractor.Extract(ctx, src)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", src.Path, err)
	}
	in.table.AddAll(classes)
	return nil
}

// Resolve implements introspect.Introspector.
func (in *Introspector) Resolve(name string) (string, bool) { return in.table.Resolve(name) }

// InstanceMethods implements introspect.Introspector.
func (in *Introspector) InstanceMethods(name string, full bool) []string {
	return in.table.InstanceMethods(name, full)
}

// InheritedMethods implements introspect.Introspector.
func (in *Introspector) InheritedMethods(name string, full bool) []string {
	return in.table.InheritedMethods(name, full)
}

// IsBuiltin implements introspect.Introspector.
func (in *Introspector) IsBuiltin(name string) bool { return in.table.IsBuiltin(name) }

// KindOf implements introspect.Introspector.
func (in *Introspector) KindOf(name string) string { return in.table.KindOf(name) }
