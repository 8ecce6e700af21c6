package rf2

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the codec. Callers match them with errors.Is.
var (
	// ErrMalformedRow indicates a row whose field count does not match its schema.
	ErrMalformedRow = errors.New("malformed row")
	// ErrDanglingLink indicates a language row whose description was never seen.
	ErrDanglingLink = errors.New("dangling link")
	// ErrMissingEntry indicates a bundle lacking a required entry.
	ErrMissingEntry = errors.New("missing archive entry")
	// ErrMissingDefinition indicates a definition file without a data row.
	ErrMissingDefinition = errors.New("missing definition row")
	// ErrAmbiguousDefinition indicates a definition file with several data rows.
	ErrAmbiguousDefinition = errors.New("ambiguous definition rows")
	// ErrUnknownHandler indicates a registry lookup for an unregistered key.
	ErrUnknownHandler = errors.New("unknown handler")
	// ErrUnsupported indicates an operation the selected handler does not implement.
	ErrUnsupported = errors.New("operation not supported")
)

// RowError locates a failure at a specific line of an archive entry.
type RowError struct {
	// Entry is the archive entry name; empty for flat streams.
	Entry string

	// Line is the 1-based physical line number, header included.
	Line int

	// Kind is the row kind being parsed (e.g. "description").
	Kind string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *RowError) Error() string {
	entry := e.Entry
	if entry == "" {
		entry = "<stream>"
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s:%d: %s row: %v", entry, e.Line, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", entry, e.Line, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError wraps err with its entry and line.
func NewRowError(entry string, line int, kind string, err error) *RowError {
	return &RowError{Entry: entry, Line: line, Kind: kind, Err: err}
}
