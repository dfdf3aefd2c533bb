package remote

import (
	"errors"
	"fmt"
)

// ErrEmptyField is returned for fields that are empty after trimming,
// before any network call is made.
var ErrEmptyField = errors.New("required field is empty")

// RequestError is returned for any transport failure or non-2xx
// response. Callers must not assume partial success.
type RequestError struct {
	Op     string
	Method string
	Path   string
	Status int   // 0 on transport failure
	Err    error // underlying transport error, if any
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s %s: HTTP %d", e.Op, e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
