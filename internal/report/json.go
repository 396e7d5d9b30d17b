// Package report provides output formatters for zentest analysis
// results: a Ruby skeleton, styled human-readable text, and JSON.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/zentest/internal/taxonomy"
)

// SchemaVersion is the version of the JSON report layout.
const SchemaVersion = "1.0.0"

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version string `json:"version"`
	*taxonomy.Result
}

// WriteJSON writes the analysis result as formatted JSON to the writer.
func WriteJSON(w io.Writer, result *taxonomy.Result) error {
	if result == nil {
		result = &taxonomy.Result{}
	}
	r := *result
	if r.Coverage == nil {
		r.Coverage = []taxonomy.CoverageRow{}
	}
	if r.Stubs == nil {
		r.Stubs = []taxonomy.StubSpec{}
	}
	if r.Diagnostics == nil {
		r.Diagnostics = []taxonomy.Diagnostic{}
	}
	if r.Metadata.Warnings == nil {
		r.Metadata.Warnings = []string{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(JSONReport{Version: SchemaVersion, Result: &r})
}
