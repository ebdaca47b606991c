package chat

import (
	"errors"
	"fmt"
)

// FailureKind classifies an upstream generation failure so the fallback loop
// can branch on a structured kind instead of matching error text.
type FailureKind int

const (
	// FailureQuota marks rate/usage-limit errors that allow falling back to
	// the next model in the list.
	FailureQuota FailureKind = iota
	// FailureGeneration marks any other upstream failure. Terminal.
	FailureGeneration
	// FailureEmptyResponse marks a call that succeeded but produced no text.
	// Terminal, same as FailureGeneration.
	FailureEmptyResponse
)

func (k FailureKind) String() string {
	switch k {
	case FailureQuota:
		return "quota"
	case FailureEmptyResponse:
		return "empty_response"
	default:
		return "generation"
	}
}

// GenerateError wraps an upstream failure with the model it came from and its
// classification.
type GenerateError struct {
	Model string
	Kind  FailureKind
	Err   error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("model %s: %s failure: %v", e.Model, e.Kind, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }

// IsQuota reports whether err is a quota-class generation failure.
func IsQuota(err error) bool {
	var ge *GenerateError
	return errors.As(err, &ge) && ge.Kind == FailureQuota
}

var (
	// ErrModelsExhausted means every configured model failed with a
	// quota-class error.
	ErrModelsExhausted = errors.New("all models exhausted")
	// ErrEmptyRequest means a request reached the pipeline with neither
	// usable text nor an image.
	ErrEmptyRequest = errors.New("prompt, messages, or image is required")
	// ErrMessageTooLong is surfaced verbatim to the client.
	ErrMessageTooLong = errors.New("message must be 4000 characters or fewer")
)
