package main

import (
	"errors"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/fhirvs"
)

// Exit codes.
const (
	exitFailure = 1
	exitUsage   = 2
	exitData    = 3
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeOf maps err to a process exit code. Content errors in the input
// files exit with exitData.
func exitCodeOf(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	switch {
	case errors.Is(err, rf2.ErrMalformedRow),
		errors.Is(err, rf2.ErrDanglingLink),
		errors.Is(err, rf2.ErrMissingEntry),
		errors.Is(err, rf2.ErrMissingDefinition),
		errors.Is(err, rf2.ErrAmbiguousDefinition),
		errors.Is(err, fhirvs.ErrInvalidValueSet):
		return exitData
	case errors.Is(err, rf2.ErrUnknownHandler), errors.Is(err, rf2.ErrUnsupported):
		return exitUsage
	default:
		return exitFailure
	}
}
