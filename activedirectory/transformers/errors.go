package transformers

import (
	"errors"
	"fmt"
)

// ErrUnpersistedReference is returned when an object reference is written
// before the referenced object has been assigned a distinguished name.
var ErrUnpersistedReference = errors.New("object reference has no distinguished name; persist the referenced object first")

// MalformedInputError reports a value that a transform could not parse or accept.
type MalformedInputError struct {
	Method Method
	Value  any
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s value %q: %v", e.Method, fmt.Sprint(e.Value), e.Err)
	}
	return fmt.Sprintf("malformed %s value %q", e.Method, fmt.Sprint(e.Value))
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func malformed(method Method, value any, err error) error {
	return &MalformedInputError{Method: method, Value: value, Err: err}
}
