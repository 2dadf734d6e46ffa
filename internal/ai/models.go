package ai

import (
	"errors"
	"fmt"
)

// GenerateRequest is the whole contract with the provider.
type GenerateRequest struct {
	SystemInstructions string
	UserPayload        string
	// Model overrides the generator's default model when non-empty.
	Model string
}

// ErrorKind classifies a generation failure.
type ErrorKind string

const (
	KindNetwork   ErrorKind = "network"
	KindStatus    ErrorKind = "status"
	KindEmpty     ErrorKind = "empty"
	KindMalformed ErrorKind = "malformed"
)

// GenerationError is returned by every Generator on failure.
type GenerationError struct {
	Kind     ErrorKind
	Provider string
	// Status is the upstream HTTP status for KindStatus, else 0.
	Status int
	Err    error
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("%s: %s failure", e.Provider, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsKind reports whether err is a GenerationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var gerr *GenerationError
	return errors.As(err, &gerr) && gerr.Kind == kind
}

// KindOf returns the failure kind of err, or "" when err is not a GenerationError.
func KindOf(err error) ErrorKind {
	var gerr *GenerationError
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return ""
}
