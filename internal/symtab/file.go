package symtab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSymbolFile is returned when a symbol file does not match
// SymbolSchema.
var ErrInvalidSymbolFile = errors.New("invalid symbol file")

// SymbolSchema is the JSON Schema (Draft 2020-12) for symbol files.
// YAML files are validated against it after conversion to JSON.
const SymbolSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/zentest/symbols.schema.json",
  "title": "ZenTest Symbol File",
  "type": "object",
  "required": ["classes"],
  "properties": {
    "classes": {
      "type": "array",
      "items": { "$ref": "#/$defs/Class" }
    }
  },
  "$defs": {
    "Class": {
      "type": "object",
      "required": ["name"],
      "additionalProperties": false,
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "kind": { "type": "string", "enum": ["class", "module"] },
        "superclass": { "type": "string" },
        "includes": { "type": "array", "items": { "type": "string" } },
        "methods": { "type": "array", "items": { "type": "string" } },
        "singleton_methods": { "type": "array", "items": { "type": "string" } },
        "file": { "type": "string" }
      }
    }
  }
}`

// File is the on-disk symbol file layout.
type File struct {
	Classes []Class `yaml:"classes" json:"classes"`
}

var compiledSymbolSchema *jsonschema.Schema

func symbolSchema() (*jsonschema.Schema, error) {
	if compiledSymbolSchema != nil {
		return compiledSymbolSchema, nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(SymbolSchema)))
	if err != nil {
		return nil, fmt.Errorf("parsing symbol schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("symbols.json", doc); err != nil {
		return nil, fmt.Errorf("adding symbol schema: %w", err)
	}
	sch, err := c.Compile("symbols.json")
	if err != nil {
		return nil, fmt.Errorf("compiling symbol schema: %w", err)
	}
	compiledSymbolSchema = sch
	return sch, nil
}

// Decode parses a YAML or JSON symbol file, validating it against
// SymbolSchema before decoding. JSON is a subset of YAML, so one
// decoder handles both.
func Decode(r io.Reader) ([]Class, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading symbol file: %w", err)
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSymbolFile, err)
	}
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSymbolFile, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSymbolFile, err)
	}

	sch, err := symbolSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSymbolFile, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSymbolFile, err)
	}
	return f.Classes, nil
}

// LoadFile reads the symbol file at path into t.
func (t *Table) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening symbol file: %w", err)
	}
	defer f.Close()

	classes, err := Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	t.AddAll(classes)
	return nil
}

// UserClasses returns the entries that are not built in.
func (t *Table) UserClasses() []Class {
	var out []Class
	for _, c := range t.Classes() {
		if !c.builtin {
			out = append(out, c)
		}
	}
	return out
}

// WriteYAML writes the user-defined classes of t as a symbol file.
func WriteYAML(w io.Writer, t *Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Classes: t.UserClasses()}); err != nil {
		return fmt.Errorf("encoding symbols: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the user-defined classes of t as a JSON symbol file.
func WriteJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	classes := t.UserClasses()
	if classes == nil {
		classes = []Class{}
	}
	return enc.Encode(File{Classes: classes})
}
