package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the store has no diagram for the given id.
var ErrNotFound = errors.New("diagram not found")

// ValidationError rejects user-supplied fields before or at the store.
// Detail is safe to show to the user verbatim.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// TransportError wraps a network or parse failure while talking to the
// store or another remote service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage extracts the message an error should surface to the user:
// the server-supplied detail when available, a generic fallback otherwise.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Detail != "" {
		return ve.Detail
	}
	if errors.Is(err, ErrNotFound) {
		return "Diagram not found"
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "Unknown error"
	}
	return err.Error()
}
