// Package severity provides severity level constants for issues reported
// while compiling an API description.
//
// The levels, from least to most severe: Info < Warning < Error < Critical.
// Errors and critical issues abort generation; warnings and info are
// reported alongside the generated files.
package severity

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityError indicates a problem that prevents generation.
	SeverityError Severity = iota

	// SeverityWarning indicates something generation worked around, such as
	// a renamed field.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo

	// SeverityCritical indicates an internal failure, such as generated code
	// that does not format.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Blocks reports whether an issue of this severity prevents generation.
func (s Severity) Blocks() bool {
	return s == SeverityError || s == SeverityCritical
}
