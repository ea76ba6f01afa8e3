package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrJobNotFound is returned for unknown or expired job IDs.
var ErrJobNotFound = errors.New("job not found")

// ExtractionError indicates the uploaded document yielded no usable text.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("text extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("text extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ModelUnavailableError indicates the completion endpoint could not be
// reached or refused the request (transport, auth, rate limit). Malformed
// output is not this error; that is a SchemaViolationError from the parser.
type ModelUnavailableError struct {
	Reason string
	Err    error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model unavailable: %s", e.Reason)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// SchemaViolationError carries every violation found when validating model
// output, not just the first, so diagnostics are actionable.
type SchemaViolationError struct {
	Violations []string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("model output failed schema validation: %s",
		strings.Join(e.Violations, "; "))
}
