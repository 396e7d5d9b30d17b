package taxonomy

// DiagnosticKind enumerates the recoverable error conditions of an
// analysis run.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// ClassNotResolvable: the introspector has no symbol for a
	// declared class name. The class never enters the registry.
	ClassNotResolvable DiagnosticKind = "class_not_resolvable"

	// MissingCounterpart: a class has no naming-convention partner.
	MissingCounterpart DiagnosticKind = "missing_counterpart"

	// MissingMethod: a method has no counterpart after fuzzy matching.
	MissingMethod DiagnosticKind = "missing_method"

	// MalformedPatternInput: a test name could not be compiled as a
	// fuzzy-suffix pattern.
	MalformedPatternInput DiagnosticKind = "malformed_pattern_input"

	// UnrecognizedTestMethodName: a test class method follows neither
	// the test nor the utility naming convention.
	UnrecognizedTestMethodName DiagnosticKind = "unrecognized_test_method_name"

	// SourceNotLoadable: the introspector could not load a source unit.
	SourceNotLoadable DiagnosticKind = "source_not_loadable"
)

// Severity is the log level a diagnostic kind is reported at.
type Severity string

// Severity constants.
const (
	SeverityDebug Severity = "debug"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// SeverityOf returns the reporting severity for a diagnostic kind.
func SeverityOf(k DiagnosticKind) Severity {
	s, ok := severityMap[k]
	if !ok {
		return SeverityWarn
	}
	return s
}

var severityMap = map[DiagnosticKind]Severity{
	ClassNotResolvable:         SeverityWarn,
	MissingCounterpart:         SeverityDebug,
	MissingMethod:              SeverityDebug,
	MalformedPatternInput:      SeverityError,
	UnrecognizedTestMethodName: SeverityDebug,
	SourceNotLoadable:          SeverityWarn,
}
