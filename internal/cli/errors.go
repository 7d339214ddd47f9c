// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses. These codes are stable and
// can be relied upon by scripts wrapping pfm.
const (
	// Input errors
	ErrConfigInvalid   = "CONFIG_INVALID"
	ErrRulesInvalid    = "RULES_INVALID"
	ErrFileNotFound    = "FILE_NOT_FOUND"
	ErrFileReadError   = "FILE_READ_ERROR"
	ErrFileWriteError  = "FILE_WRITE_ERROR"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// Graph errors
	ErrMalformedGraph = "MALFORMED_GRAPH"
	ErrRootNotFound   = "ROOT_NOT_FOUND"

	// Database errors
	ErrReportDatabase = "REPORT_DATABASE_ERROR"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnNoStructuralMatch  = "NO_STRUCTURAL_MATCH"
	WarnUnresolvedRef      = "UNRESOLVED_REFERENCE"
	WarnDanglingRef        = "DANGLING_REFERENCE"
	WarnMissingCounterpart = "MISSING_COUNTERPART"
)
