package engine_test

import (
	"context"

	"github.com/unbound-force/zentest/internal/loader"
)

// emptyIntrospector knows no classes.
type emptyIntrospector struct{}

func (emptyIntrospector) Load(context.Context, loader.Source) error { return nil }
func (emptyIntrospector) Resolve(string) (string, bool)             { return "", false }
func (emptyIntrospector) InstanceMethods(string, bool) []string     { return nil }
func (emptyIntrospector) InheritedMethods(string, bool) []string    { return nil }
func (emptyIntrospector) IsBuiltin(string) bool                     { return false }
func (emptyIntrospector) KindOf(string) string                      { return "" }
