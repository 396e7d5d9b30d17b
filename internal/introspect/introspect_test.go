package introspect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/unbound-force/zentest/internal/introspect"
	"github.com/unbound-force/zentest/internal/loader"
	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/registry"
)

// fakeIntrospector serves fixed method lists keyed by exact name.
type fakeIntrospector struct {
	methods   map[string][]string
	inherited map[string][]string
	fullSeen  map[string]bool
}

func (f *fakeIntrospector) Load(context.Context, loader.Source) error { return nil }

func (f *fakeIntrospector) Resolve(name string) (string, bool) {
	if _, ok := f.methods[name]; ok {
		return name, true
	}
	if _, ok := f.methods["Outer::"+name]; ok {
		return "Outer::" + name, true
	}
	return "", false
}

func (f *fakeIntrospector) InstanceMethods(name string, full bool) []string {
	if f.fullSeen != nil {
		f.fullSeen[name] = full
	}
	return f.methods[name]
}

func (f *fakeIntrospector) InheritedMethods(name string, _ bool) []string {
	return f.inherited[name]
}

func (f *fakeIntrospector) IsBuiltin(string) bool { return false }
func (f *fakeIntrospector) KindOf(string) string  { return "class" }

func newFake() *fakeIntrospector {
	return &fakeIntrospector{
		methods: map[string][]string{
			"Something":      {"method1", "self.build"},
			"TestSomething":  {"test_method1"},
			"Outer::Nested":  {"go"},
			"TestEmptyThing": nil,
		},
		inherited: map[string][]string{
			"Something": {"parent_method"},
		},
		fullSeen: map[string]bool{},
	}
}

func TestProcess_ProductionClass(t *testing.T) {
	reg := registry.New()
	fake := newFake()

	got, err := introspect.Process(reg, naming.Convention{}, fake, "Something", true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "Something" {
		t.Errorf("resolved = %q, want Something", got)
	}
	methods, ok := reg.Classes["Something"]
	if !ok {
		t.Fatal("Something not registered as a production class")
	}
	if !methods.Has("method1") || !methods.Has("self.build") {
		t.Errorf("methods = %v", methods.Sorted())
	}
	if !reg.Inherited("Something").Has("parent_method") {
		t.Error("inherited methods not recorded")
	}
	if !fake.fullSeen["Something"] {
		t.Error("full flag not passed through")
	}
	if _, ok := reg.TestClasses["Something"]; ok {
		t.Error("production class registered as a test class")
	}
}

func TestProcess_TestClass(t *testing.T) {
	reg := registry.New()
	if _, err := introspect.Process(reg, naming.Convention{}, newFake(), "TestSomething", false); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !reg.TestClasses["TestSomething"].Has("test_method1") {
		t.Errorf("TestSomething methods = %v", reg.TestClasses["TestSomething"].Sorted())
	}
}

func TestProcess_EmptyClassIsRegistered(t *testing.T) {
	reg := registry.New()
	if _, err := introspect.Process(reg, naming.Convention{}, newFake(), "TestEmptyThing", false); err != nil {
		t.Fatalf("Process: %v", err)
	}
	methods, ok := reg.TestClasses["TestEmptyThing"]
	if !ok {
		t.Fatal("empty class should still be registered")
	}
	if len(methods) != 0 {
		t.Errorf("methods = %v, want none", methods.Sorted())
	}
}

func TestProcess_KeysByResolvedName(t *testing.T) {
	reg := registry.New()
	got, err := introspect.Process(reg, naming.Convention{}, newFake(), "Nested", false)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "Outer::Nested" {
		t.Errorf("resolved = %q, want Outer::Nested", got)
	}
	if _, ok := reg.Classes["Nested"]; ok {
		t.Error("class registered under the name as written")
	}
	if _, ok := reg.Classes["Outer::Nested"]; !ok {
		t.Error("class not registered under its resolved name")
	}
}

func TestProcess_NotFound(t *testing.T) {
	reg := registry.New()
	_, err := introspect.Process(reg, naming.Convention{}, newFake(), "Missing", false)
	if !errors.Is(err, introspect.ErrClassNotFound) {
		t.Fatalf("err = %v, want ErrClassNotFound", err)
	}
	if len(reg.Classes)+len(reg.TestClasses) != 0 {
		t.Error("nothing should be registered for an unresolved class")
	}
}

func TestProcess_ReverseConvention(t *testing.T) {
	fake := &fakeIntrospector{methods: map[string][]string{
		"SomethingTest": {"test_method1"},
		"TestHelper":    {"help"},
	}}
	reg := registry.New()
	conv := naming.Convention{Reverse: true}

	for _, name := range []string{"SomethingTest", "TestHelper"} {
		if _, err := introspect.Process(reg, conv, fake, name, false); err != nil {
			t.Fatalf("Process(%s): %v", name, err)
		}
	}
	if _, ok := reg.TestClasses["SomethingTest"]; !ok {
		t.Error("SomethingTest should be a test class in reverse mode")
	}
	if _, ok := reg.Classes["TestHelper"]; !ok {
		t.Error("TestHelper should be a production class in reverse mode")
	}
}
