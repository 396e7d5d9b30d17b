package report

// Schema is the JSON Schema (Draft 2020-12) for the zentest analysis
// JSON output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/zentest/analysis-report.schema.json",
  "title": "ZenTest Analysis Report",
  "description": "Output schema for zentest analyze --format=json",
  "type": "object",
  "required": ["version", "coverage", "stubs", "errors", "diagnostics", "metadata"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "coverage": {
      "type": "array",
      "items": { "$ref": "#/$defs/CoverageRow" }
    },
    "stubs": {
      "type": "array",
      "items": { "$ref": "#/$defs/StubSpec" }
    },
    "errors": {
      "type": "integer",
      "minimum": 0,
      "description": "Number of gaps detected, counting repeats"
    },
    "found_classes": {
      "type": "array",
      "items": { "type": "string" }
    },
    "found_test_classes": {
      "type": "array",
      "items": { "type": "string" }
    },
    "diagnostics": {
      "type": "array",
      "items": { "$ref": "#/$defs/Diagnostic" }
    },
    "metadata": { "$ref": "#/$defs/Metadata" }
  },
  "$defs": {
    "CoverageRow": {
      "type": "object",
      "required": ["class", "assertions", "methods", "ratio"],
      "properties": {
        "class": { "type": "string" },
        "assertions": { "type": "integer", "minimum": 0 },
        "methods": { "type": "integer", "minimum": 0 },
        "ratio": {
          "description": "Assertions per method as a percentage; non-finite values are strings",
          "oneOf": [
            { "type": "number" },
            { "type": "string", "enum": ["NaN", "+Inf", "-Inf"] }
          ]
        }
      }
    },
    "StubSpec": {
      "type": "object",
      "required": ["full_name", "module_path", "class_name", "is_test_class", "class_methods", "instance_methods"],
      "properties": {
        "full_name": {
          "type": "string",
          "description": "Module-qualified class name"
        },
        "module_path": {
          "type": "array",
          "items": { "type": "string" },
          "description": "Enclosing modules, outermost first"
        },
        "class_name": { "type": "string" },
        "is_test_class": { "type": "boolean" },
        "class_methods": {
          "type": "array",
          "items": { "type": "string" }
        },
        "instance_methods": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    },
    "Diagnostic": {
      "type": "object",
      "required": ["kind", "message"],
      "properties": {
        "kind": {
          "type": "string",
          "enum": [
            "class_not_resolvable",
            "missing_counterpart",
            "missing_method",
            "malformed_pattern_input",
            "unrecognized_test_method_name",
            "source_not_loadable"
          ]
        },
        "class": { "type": "string" },
        "method": { "type": "string" },
        "message": { "type": "string" }
      }
    },
    "Metadata": {
      "type": "object",
      "required": ["zentest_version", "go_version", "run_id", "reverse", "duration_ms", "warnings"],
      "properties": {
        "zentest_version": { "type": "string" },
        "go_version": { "type": "string" },
        "run_id": { "type": "string" },
        "reverse": { "type": "boolean" },
        "timestamp": {
          "type": "string",
          "format": "date-time"
        },
        "duration_ms": {
          "type": "integer",
          "minimum": 0
        },
        "warnings": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    }
  }
}`
