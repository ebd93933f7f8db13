package errors

import (
	"fmt"
)

// Common error types
var (
	// Registry errors
	ErrModelNotFound = New("Model not found")

	// Audio errors
	ErrCodecUnavailable = New("audio codec unavailable")
	ErrNoAudioStream    = New("no audio stream found")

	// Cache errors
	ErrCacheDisabled = New("model repository cache disabled")
	ErrRepoNotFound  = New("model repository not found")

	// Conversion errors
	ErrSynthesizerUnavailable = New("speech synthesizer unavailable")
	ErrScriptNotFound         = New("inference script not found")
	ErrEmptyText              = New("text cannot be empty")
	ErrEmptyOutput            = New("backend produced no output")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Message returns the error text without its cause.
func (e *Error) Message() string {
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return Newf("%s not found: %s", itemType, identifier)
}
