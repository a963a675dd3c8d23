package directory

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a slug the backend has no record for.
var ErrNotFound = errors.New("directory: not found")

// DecodeError distinguishes malformed backend payloads from transport
// failures, so callers can tell "API is down" from "API sent garbage".
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("directory: decode %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func errMissingField(payload, field string) error {
	return fmt.Errorf("%s payload missing %s", payload, field)
}
