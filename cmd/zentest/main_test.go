package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unbound-force/zentest/internal/symtab"
)

const canonicalSrc = `class Something
  def method1
  end
end

class TestSomething < Test::Unit::TestCase
  def test_method2
    assert true
  end
end
`

func stdinInput(src string) analysisInput {
	return analysisInput{
		paths: []string{"-"},
		stdin: strings.NewReader(src),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func boolPtr(b bool) *bool { return &b }

// ---------------------------------------------------------------------------
// runAnalyze tests
// ---------------------------------------------------------------------------

func TestRunAnalyze_InvalidFormat(t *testing.T) {
	err := runAnalyze(analyzeParams{
		input:  stdinInput(canonicalSrc),
		format: "html",
		stdout: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), `invalid format "html"`) {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestRunAnalyze_NothingToAnalyze(t *testing.T) {
	err := runAnalyze(analyzeParams{format: "ruby", stdout: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected error without paths or classes")
	}
}

func TestRunAnalyze_ClassesAndPathsConflict(t *testing.T) {
	in := stdinInput(canonicalSrc)
	in.classes = []string{"Something"}
	err := runAnalyze(analyzeParams{input: in, format: "ruby", stdout: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "--class") {
		t.Fatalf("expected --class conflict error, got %v", err)
	}
}

func TestRunAnalyze_RubyFormat(t *testing.T) {
	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:  stdinInput(canonicalSrc),
		format: "ruby",
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"# Code generated by zentest " + version,
		"require 'test/unit'",
		"class Something\n  def method2(*args)",
		"class TestSomething < Test::Unit::TestCase\n  def test_method1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "# Number of errors detected: 2\n") {
		t.Errorf("expected trailing error summary, got:\n%s", out)
	}
}

func TestRunAnalyze_FailOnErrors(t *testing.T) {
	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:  stdinInput(canonicalSrc),
		format: "ruby",
		fail:   true,
		stdout: &stdout,
	})
	if err == nil {
		t.Fatal("expected error when gaps are found with fail set")
	}
	if err.Error() != "2 errors detected" {
		t.Errorf("unexpected error message: %s", err)
	}
	if stdout.Len() == 0 {
		t.Error("report should be written before failing")
	}
}

func TestRunAnalyze_NoErrorsDoesNotFail(t *testing.T) {
	src := `class Widget
  def spin
  end
end

class TestWidget
  def test_spin
    assert true
  end
end
`
	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:  stdinInput(src),
		format: "ruby",
		fail:   true,
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "# Number of errors detected: 0") {
		t.Errorf("unexpected output:\n%s", stdout.String())
	}
}

func TestRunAnalyze_JSONFormat(t *testing.T) {
	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:  stdinInput(canonicalSrc),
		format: "json",
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput:\n%s", err, stdout.String())
	}
	if parsed["errors"] != float64(2) {
		t.Errorf("errors = %v, want 2", parsed["errors"])
	}
	if _, ok := parsed["stubs"]; !ok {
		t.Error("JSON output missing 'stubs' key")
	}
}

func TestRunAnalyze_TextFormat(t *testing.T) {
	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:  stdinInput(canonicalSrc),
		format: "text",
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "TestSomething") || !strings.Contains(out, "test_method1") {
		t.Errorf("expected missing test method in output, got:\n%s", out)
	}
	if !strings.Contains(out, "2 error(s) detected") {
		t.Errorf("expected error count in output, got:\n%s", out)
	}
}

func TestRunAnalyze_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "widget.rb"), "class Widget\n  def spin\n  end\nend\n")
	writeFile(t, filepath.Join(dir, "test", "test_widget.rb"), "class TestWidget\n  def test_spin\n    assert true\n  end\nend\n")
	writeFile(t, filepath.Join(dir, "README.md"), "class NotRuby\nend\n")

	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:  analysisInput{paths: []string{dir}},
		format: "json",
		fail:   true,
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stdout.String())
	}
	if strings.Contains(stdout.String(), "NotRuby") {
		t.Error("non-Ruby file was scanned")
	}
}

func TestRunAnalyze_MissingPath(t *testing.T) {
	err := runAnalyze(analyzeParams{
		input:  analysisInput{paths: []string{filepath.Join(t.TempDir(), "nope.rb")}},
		format: "ruby",
		stdout: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for a missing source path")
	}
}

func TestRunAnalyze_ReverseFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "zentest.yaml")
	writeFile(t, cfgPath, "reverse: true\n")

	src := `class Widget
  def spin
  end
end

class WidgetTest
  def test_spin
    assert true
  end
end
`
	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:      stdinInput(src),
		format:     "json",
		configPath: cfgPath,
		fail:       true,
		stdout:     &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stdout.String())
	}

	var parsed struct {
		Metadata struct {
			Reverse bool `json:"reverse"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		t.Fatal(err)
	}
	if !parsed.Metadata.Reverse {
		t.Error("reverse from the config file was not applied")
	}
}

func TestRunAnalyze_ClassMode(t *testing.T) {
	dir := t.TempDir()
	symbols := filepath.Join(dir, "symbols.yaml")
	writeFile(t, symbols, `classes:
  - name: Something
    methods: [method1]
  - name: TestSomething
    methods: [test_method2]
`)

	var stdout bytes.Buffer
	err := runAnalyze(analyzeParams{
		input:     analysisInput{classes: []string{"Something", "TestSomething"}},
		format:    "ruby",
		overrides: flagOverrides{symbols: &symbols},
		stdout:    &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "def method2(*args)") || !strings.Contains(out, "def test_method1") {
		t.Errorf("expected both stubs, got:\n%s", out)
	}
}

func TestRunAnalyze_InteractiveRequiresTerminal(t *testing.T) {
	err := runAnalyze(analyzeParams{
		input:       stdinInput(canonicalSrc),
		format:      "ruby",
		interactive: true,
		stdout:      &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Fatalf("expected terminal error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// loadConfig tests
// ---------------------------------------------------------------------------

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zentest.yaml")
	writeFile(t, path, "reverse: true\nverbose: true\nsymbols: file.yaml\n")

	symbols := "other.yaml"
	cfg, err := loadConfig(path, flagOverrides{
		reverse: boolPtr(false),
		debug:   boolPtr(true),
		symbols: &symbols,
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Reverse {
		t.Error("--reverse=false did not override the file")
	}
	if !cfg.Debug {
		t.Error("--debug was not applied")
	}
	if !cfg.Verbose {
		t.Error("verbose from the file was lost")
	}
	if cfg.Symbols != "other.yaml" {
		t.Errorf("symbols = %q", cfg.Symbols)
	}
}

func TestLoadConfig_NoOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zentest.yaml")
	writeFile(t, path, "reverse: true\n")

	cfg, err := loadConfig(path, flagOverrides{})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Reverse {
		t.Error("reverse from the file was lost")
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"), flagOverrides{}); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

// ---------------------------------------------------------------------------
// runSymbols tests
// ---------------------------------------------------------------------------

func TestRunSymbols_YAMLRoundTrip(t *testing.T) {
	var stdout bytes.Buffer
	err := runSymbols(symbolsParams{
		paths:  []string{"-"},
		format: "yaml",
		stdin:  strings.NewReader(canonicalSrc),
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	classes, err := symtab.Decode(&stdout)
	if err != nil {
		t.Fatalf("symbols output does not decode: %v", err)
	}
	if len(classes) != 2 {
		t.Fatalf("got %d classes, want 2: %+v", len(classes), classes)
	}
	if classes[0].Name != "Something" || len(classes[0].Methods) != 1 || classes[0].Methods[0] != "method1" {
		t.Errorf("classes[0] = %+v", classes[0])
	}
	if classes[1].Superclass != "Test::Unit::TestCase" {
		t.Errorf("classes[1].Superclass = %q", classes[1].Superclass)
	}
}

func TestRunSymbols_JSON(t *testing.T) {
	var stdout bytes.Buffer
	err := runSymbols(symbolsParams{
		paths:  []string{"-"},
		format: "json",
		stdin:  strings.NewReader(canonicalSrc),
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestRunSymbols_InvalidFormat(t *testing.T) {
	err := runSymbols(symbolsParams{paths: []string{"-"}, format: "xml", stdout: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), `invalid format "xml"`) {
		t.Fatalf("expected invalid format error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// runScaffold tests
// ---------------------------------------------------------------------------

func TestRunScaffold_WritesStubFiles(t *testing.T) {
	dir := t.TempDir()

	var stdout bytes.Buffer
	err := runScaffold(scaffoldParams{
		input:  stdinInput(canonicalSrc),
		dir:    dir,
		stdout: &stdout,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"something.rb", "test_something.rb"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		if !strings.HasPrefix(string(content), "# Code generated by zentest ") {
			t.Errorf("%s lacks the generated header:\n%s", name, content)
		}
	}
	if !strings.Contains(stdout.String(), "created:") {
		t.Errorf("unexpected summary:\n%s", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// schema command tests
// ---------------------------------------------------------------------------

func TestSchemaCmd_OutputsValidJSON(t *testing.T) {
	cmd := newSchemaCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("schema command failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("schema output is not valid JSON: %v", err)
	}
	props, ok := parsed["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("schema has no properties")
	}
	for _, key := range []string{"coverage", "stubs", "errors", "diagnostics", "metadata"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema missing property %q", key)
		}
	}
}
