// Package errs defines the error kinds the operator API distinguishes.
// Handlers map these to HTTP responses at the boundary; everything else in
// the server passes them around as plain errors.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthentication covers every credential failure: bad or missing
	// token, bad signature, unknown operator. Callers must not be able to
	// tell which check failed.
	ErrAuthentication = errors.New("not authenticated")

	// ErrNotFound means the referenced task or implant does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the resource exists but belongs to another
	// operator. Checked only after existence.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream means the store or broker could not be reached. The
	// caller may retry.
	ErrUpstream = errors.New("upstream unavailable")
)

// ValidationError reports a malformed request body along with the offending
// field names.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request, missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Validation builds a ValidationError for the given field names.
func Validation(fields ...string) error {
	return &ValidationError{Fields: fields}
}
