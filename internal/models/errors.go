package models

import (
	"errors"
	"fmt"
)

// InputError is the only fatal error class the pipeline surfaces to callers.
// Everything else degrades to documented defaults plus a warning. The Field
// and Value give the caller enough context to fix the request.
type InputError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q (value %v): %s", e.Field, e.Value, e.Reason)
}

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
