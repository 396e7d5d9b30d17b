// Package introspect defines how the engine learns about classes
// without running the code that declares them.
package introspect

import (
	"context"
	"errors"
	"fmt"

	"github.com/unbound-force/zentest/internal/loader"
	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/registry"
)

// ErrClassNotFound is returned when a class name cannot be resolved.
var ErrClassNotFound = errors.New("class not found")

// Introspector answers questions about classes declared in loaded
// sources or known ahead of time.
type Introspector interface {
	// Load makes the classes declared in src available for lookup.
	Load(ctx context.Context, src loader.Source) error

	// Resolve maps a name as written to the fully-qualified name it is
	// known under. When several classes end in "::"+name the first one
	// known wins.
	Resolve(name string) (string, bool)

	// InstanceMethods returns the public methods declared directly on
	// the resolved class name, class-level methods prefixed "self.".
	// Universal base methods are excluded unless full is set.
	InstanceMethods(name string, full bool) []string

	// InheritedMethods returns the methods name reaches through its
	// superclass, excluding universal base methods unless full is set.
	InheritedMethods(name string, full bool) []string

	// IsBuiltin reports whether name is a core class that is always
	// known, such as String or Array.
	IsBuiltin(name string) bool

	// KindOf returns "class" or "module", or "" when unknown.
	KindOf(name string) string
}

// Process resolves name and records its methods in reg: into
// TestClasses when the resolved name is a test class under conv,
// otherwise into Classes. The inherited method set is recorded too.
// It returns the resolved name.
func Process(reg *registry.Registry, conv naming.Convention, in Introspector, name string, full bool) (string, error) {
	resolved, ok := in.Resolve(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}

	methods := registry.NewMethodSet(in.InstanceMethods(resolved, full)...)
	if conv.IsTestClass(resolved) {
		reg.AddTestClass(resolved, methods)
	} else {
		reg.AddClass(resolved, methods)
	}
	reg.SetInherited(resolved, registry.NewMethodSet(in.InheritedMethods(resolved, full)...))
	return resolved, nil
}
