// Package taxonomy defines the value types shared by the scanner, gap
// analysis, stub generation, and report formatters.
package taxonomy

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// StubSpec describes one class whose missing methods need stubs. It
// carries enough structure to render a placeholder definition in any
// target language.
type StubSpec struct {
	// FullName is the module-qualified class name (e.g. "A::B::C").
	FullName string `json:"full_name"`

	// ModulePath lists the enclosing modules, outermost first.
	ModulePath []string `json:"module_path"`

	// ClassName is the leaf class name.
	ClassName string `json:"class_name"`

	// IsTestClass is true when FullName follows the test convention.
	IsTestClass bool `json:"is_test_class"`

	// ClassMethods are class-level stubs, sorted.
	ClassMethods []string `json:"class_methods"`

	// InstanceMethods are instance-level stubs, sorted.
	InstanceMethods []string `json:"instance_methods"`
}

// CoverageRow is one line of the assertion-to-method ratio table.
type CoverageRow struct {
	// Class is the production class name.
	Class string `json:"class"`

	// Assertions counts assertion lines in the test class.
	Assertions int `json:"assertions"`

	// Methods counts method definition lines in the production class.
	Methods int `json:"methods"`

	// Ratio is Assertions/Methods*100. It is +Inf when Methods is
	// zero and Assertions is not, and NaN when both are zero.
	Ratio float64 `json:"ratio"`
}

// MarshalJSON encodes a non-finite Ratio as a string ("NaN", "+Inf")
// since JSON numbers cannot represent it.
func (r CoverageRow) MarshalJSON() ([]byte, error) {
	type Alias CoverageRow
	var ratio any = r.Ratio
	if math.IsNaN(r.Ratio) || math.IsInf(r.Ratio, 0) {
		ratio = strconv.FormatFloat(r.Ratio, 'f', -1, 64)
	}
	return json.Marshal(&struct {
		Alias
		Ratio any `json:"ratio"`
	}{
		Alias: Alias(r),
		Ratio: ratio,
	})
}

// Diagnostic records one recovered error condition.
type Diagnostic struct {
	// Kind classifies the condition.
	Kind DiagnosticKind `json:"kind"`

	// Class is the class the condition concerns.
	Class string `json:"class,omitempty"`

	// Method is the method the condition concerns, if any.
	Method string `json:"method,omitempty"`

	// Message is a human-readable explanation.
	Message string `json:"message"`
}

// Metadata holds analysis run metadata.
type Metadata struct {
	ZentestVersion string        `json:"zentest_version"`
	GoVersion      string        `json:"go_version"`
	RunID          string        `json:"run_id"`
	Reverse        bool          `json:"reverse"`
	Timestamp      time.Time     `json:"-"`
	Duration       time.Duration `json:"-"`
	Warnings       []string      `json:"warnings"`
}

// MarshalJSON customizes JSON encoding to use duration_ms and
// ISO 8601 timestamp.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type Alias Metadata
	ts := ""
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(&struct {
		Alias
		DurationMS int64  `json:"duration_ms"`
		Timestamp  string `json:"timestamp,omitempty"`
	}{
		Alias:      Alias(m),
		DurationMS: m.Duration.Milliseconds(),
		Timestamp:  ts,
	})
}

// Result is the complete output of one analysis run.
type Result struct {
	// Coverage is the ratio table, highest ratio first.
	Coverage []CoverageRow `json:"coverage"`

	// Stubs lists the classes with missing methods, sorted by name.
	Stubs []StubSpec `json:"stubs"`

	// Errors is the number of detected gaps.
	Errors int `json:"errors"`

	// FoundClasses lists discovered production classes (verbose only).
	FoundClasses []string `json:"found_classes,omitempty"`

	// FoundTestClasses lists discovered test classes (verbose only).
	FoundTestClasses []string `json:"found_test_classes,omitempty"`

	// Diagnostics lists every recovered error condition.
	Diagnostics []Diagnostic `json:"diagnostics"`

	// Metadata contains run information.
	Metadata Metadata `json:"metadata"`
}

// MissingCount returns the number of distinct missing methods across
// all stubs.
func (r Result) MissingCount() int {
	n := 0
	for _, s := range r.Stubs {
		n += len(s.ClassMethods) + len(s.InstanceMethods)
	}
	return n
}
