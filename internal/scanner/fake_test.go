package scanner_test

import (
	"context"

	"github.com/unbound-force/zentest/internal/loader"
)

// fakeIntrospector resolves nothing and records load calls.
type fakeIntrospector struct {
	loads   []string
	loadErr error
}

func (f *fakeIntrospector) Load(_ context.Context, src loader.Source) error {
	f.loads = append(f.loads, src.Path)
	return f.loadErr
}

func (f *fakeIntrospector) Resolve(string) (string, bool)          { return "", false }
func (f *fakeIntrospector) InstanceMethods(string, bool) []string  { return nil }
func (f *fakeIntrospector) InheritedMethods(string, bool) []string { return nil }
func (f *fakeIntrospector) IsBuiltin(string) bool                  { return false }
func (f *fakeIntrospector) KindOf(string) string                   { return "" }
