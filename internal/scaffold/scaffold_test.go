package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unbound-force/zentest/internal/taxonomy"
)

func sampleResult() *taxonomy.Result {
	return &taxonomy.Result{
		Stubs: []taxonomy.StubSpec{
			{
				FullName:        "Geometry::HTTPShape",
				ModulePath:      []string{"Geometry"},
				ClassName:       "HTTPShape",
				ClassMethods:    []string{},
				InstanceMethods: []string{"area"},
			},
			{
				FullName:        "TestSomething",
				ClassName:       "TestSomething",
				IsTestClass:     true,
				ClassMethods:    []string{"test_class_build"},
				InstanceMethods: []string{"test_method1"},
			},
		},
		Errors: 3,
	}
}

var sampleFiles = []string{
	filepath.Join("geometry", "http_shape.rb"),
	"test_something.rb",
}

// TestRun_CreatesFiles verifies one file is written per stub in an
// empty directory.
func TestRun_CreatesFiles(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	result, err := Run(sampleResult(), Options{
		TargetDir: dir,
		Version:   "1.2.3",
		Stdout:    &buf,
	})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	if len(result.Created) != len(sampleFiles) {
		t.Errorf("expected %d created files, got %d: %v", len(sampleFiles), len(result.Created), result.Created)
	}
	if len(result.Skipped) != 0 {
		t.Errorf("expected 0 skipped files, got %d: %v", len(result.Skipped), result.Skipped)
	}
	if len(result.Overwritten) != 0 {
		t.Errorf("expected 0 overwritten files, got %d: %v", len(result.Overwritten), result.Overwritten)
	}

	for _, rel := range sampleFiles {
		if _, err := os.Stat(filepath.Join(dir, rel)); os.IsNotExist(err) {
			t.Errorf("expected file %s to exist", rel)
		}
	}

	if !strings.Contains(buf.String(), "created:") {
		t.Errorf("summary should mention 'created:', got:\n%s", buf.String())
	}
}

// TestRun_SkipsExisting verifies existing files are kept and reported
// when Force is not set.
func TestRun_SkipsExisting(t *testing.T) {
	dir := t.TempDir()

	if _, err := Run(sampleResult(), Options{TargetDir: dir, Stdout: &bytes.Buffer{}}); err != nil {
		t.Fatalf("first Run() returned error: %v", err)
	}

	// Hand edits must survive a second run.
	edited := filepath.Join(dir, "test_something.rb")
	if err := os.WriteFile(edited, []byte("# mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	result, err := Run(sampleResult(), Options{TargetDir: dir, Stdout: &buf})
	if err != nil {
		t.Fatalf("second Run() returned error: %v", err)
	}

	if len(result.Created) != 0 {
		t.Errorf("expected 0 created, got %d: %v", len(result.Created), result.Created)
	}
	if len(result.Skipped) != len(sampleFiles) {
		t.Errorf("expected %d skipped, got %d: %v", len(sampleFiles), len(result.Skipped), result.Skipped)
	}

	content, err := os.ReadFile(edited)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "# mine\n" {
		t.Errorf("existing file was modified: %q", content)
	}

	output := buf.String()
	if !strings.Contains(output, "skipped:") {
		t.Errorf("summary should mention 'skipped:', got:\n%s", output)
	}
	if !strings.Contains(output, "use --force to overwrite") {
		t.Errorf("summary should suggest --force, got:\n%s", output)
	}
}

// TestRun_ForceOverwrites verifies Force replaces existing files and
// reports the overwrites.
func TestRun_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()

	if _, err := Run(sampleResult(), Options{TargetDir: dir, Version: "1.0.0", Stdout: &bytes.Buffer{}}); err != nil {
		t.Fatalf("first Run() returned error: %v", err)
	}

	var buf bytes.Buffer
	result, err := Run(sampleResult(), Options{
		TargetDir: dir,
		Force:     true,
		Version:   "2.0.0",
		Stdout:    &buf,
	})
	if err != nil {
		t.Fatalf("second Run() with force returned error: %v", err)
	}

	if len(result.Overwritten) != len(sampleFiles) {
		t.Errorf("expected %d overwritten, got %d: %v", len(sampleFiles), len(result.Overwritten), result.Overwritten)
	}
	if !strings.Contains(buf.String(), "overwritten:") {
		t.Errorf("summary should mention 'overwritten:', got:\n%s", buf.String())
	}

	content, err := os.ReadFile(filepath.Join(dir, "test_something.rb"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "# Code generated by zentest 2.0.0\n") {
		t.Errorf("file not rewritten with new version:\n%s", content)
	}
}

// TestRun_FileContent verifies the header, preamble, and skeleton.
func TestRun_FileContent(t *testing.T) {
	dir := t.TempDir()

	_, err := Run(sampleResult(), Options{
		TargetDir: dir,
		Stdout:    &bytes.Buffer{},
		KindOf: func(name string) string {
			if name == "Geometry" {
				return "class"
			}
			return ""
		},
	})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	impl, err := os.ReadFile(filepath.Join(dir, "geometry", "http_shape.rb"))
	if err != nil {
		t.Fatal(err)
	}
	wantImpl := `# Code generated by zentest dev

class Geometry
  class HTTPShape
    def area(*args)
      raise NotImplementedError, 'not yet implemented: area'
    end
  end
end
`
	if string(impl) != wantImpl {
		t.Errorf("implementation stub:\ngot:\n%s\nwant:\n%s", impl, wantImpl)
	}

	test, err := os.ReadFile(filepath.Join(dir, "test_something.rb"))
	if err != nil {
		t.Fatal(err)
	}
	wantTest := `# Code generated by zentest dev

require 'test/unit'

class TestSomething < Test::Unit::TestCase
  def test_class_build
    raise NotImplementedError, 'not yet implemented: test_class_build'
  end

  def test_method1
    raise NotImplementedError, 'not yet implemented: test_method1'
  end
end
`
	if string(test) != wantTest {
		t.Errorf("test stub:\ngot:\n%s\nwant:\n%s", test, wantTest)
	}
}

// TestRun_NothingMissing verifies an empty result writes no files.
func TestRun_NothingMissing(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	result, err := Run(&taxonomy.Result{}, Options{TargetDir: dir, Stdout: &buf})
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if len(result.Created) != 0 {
		t.Errorf("expected no files, got %v", result.Created)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("target directory is not empty: %v", entries)
	}
	if !strings.Contains(buf.String(), "Nothing to scaffold") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Foo", "foo.rb"},
		{"FooBar", "foo_bar.rb"},
		{"TestFooBar", "test_foo_bar.rb"},
		{"FooBarTest", "foo_bar_test.rb"},
		{"HTTPServer", "http_server.rb"},
		{"Base64", "base64.rb"},
		{"Net::HTTP", filepath.Join("net", "http.rb")},
		{"TestMod::TestCls", filepath.Join("test_mod", "test_cls.rb")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.name); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
