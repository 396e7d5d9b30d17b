package stub_test

import (
	"reflect"
	"testing"

	"github.com/unbound-force/zentest/internal/naming"
	"github.com/unbound-force/zentest/internal/registry"
	"github.com/unbound-force/zentest/internal/stub"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

func TestGenerate(t *testing.T) {
	missing := registry.NewMissing()
	missing.Add("TestSomething", "test_method1")
	missing.Add("Something", "method2")
	missing.Add("Outer::Inner", "zeta")
	missing.Add("Outer::Inner", "self.build")
	missing.Add("Outer::Inner", "alpha")
	missing.Add("TestOuter::TestInner", "test_class_build")
	missing.Add("TestOuter::TestInner", "test_go")

	got := stub.Generate(missing, naming.Convention{})
	want := []taxonomy.StubSpec{
		{
			FullName:        "Outer::Inner",
			ModulePath:      []string{"Outer"},
			ClassName:       "Inner",
			ClassMethods:    []string{"self.build"},
			InstanceMethods: []string{"alpha", "zeta"},
		},
		{
			FullName:        "Something",
			ModulePath:      []string{},
			ClassName:       "Something",
			ClassMethods:    []string{},
			InstanceMethods: []string{"method2"},
		},
		{
			FullName:        "TestOuter::TestInner",
			ModulePath:      []string{"TestOuter"},
			ClassName:       "TestInner",
			IsTestClass:     true,
			ClassMethods:    []string{"test_class_build"},
			InstanceMethods: []string{"test_go"},
		},
		{
			FullName:        "TestSomething",
			ModulePath:      []string{},
			ClassName:       "TestSomething",
			IsTestClass:     true,
			ClassMethods:    []string{},
			InstanceMethods: []string{"test_method1"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestGenerate_Empty(t *testing.T) {
	if got := stub.Generate(registry.NewMissing(), naming.Convention{}); len(got) != 0 {
		t.Errorf("expected no specs, got %+v", got)
	}
}

func TestGenerate_ReverseConvention(t *testing.T) {
	missing := registry.NewMissing()
	missing.Add("WidgetTest", "test_spin")

	got := stub.Generate(missing, naming.Convention{Reverse: true})
	if len(got) != 1 || !got[0].IsTestClass {
		t.Errorf("WidgetTest should be a test class in reverse mode: %+v", got)
	}
}

func TestSummary(t *testing.T) {
	if got := stub.Summary(2); got != "Number of errors detected: 2" {
		t.Errorf("Summary(2) = %q", got)
	}
}

func TestDiscovered(t *testing.T) {
	reg := registry.New()
	reg.AddClass("B", nil)
	reg.AddClass("A", nil)
	reg.AddTestClass("TestA", nil)

	classes, tests := stub.Discovered(reg)
	if !reflect.DeepEqual(classes, []string{"A", "B"}) {
		t.Errorf("classes = %v", classes)
	}
	if !reflect.DeepEqual(tests, []string{"TestA"}) {
		t.Errorf("test classes = %v", tests)
	}
}
