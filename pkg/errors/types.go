// Package errors provides structured errors with codes for the loader and
// storage layers. The core lookup logic never uses these; its failures are
// plain sentinel values.
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode identifies a failure class.
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrCodeConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Tabular source errors
	ErrCodeSourceFetch  ErrorCode = "SOURCE_FETCH"
	ErrCodeSourceParse  ErrorCode = "SOURCE_PARSE"
	ErrCodeSourceSchema ErrorCode = "SOURCE_SCHEMA"

	// Session storage errors
	ErrCodeStorageRead  ErrorCode = "STORAGE_READ"
	ErrCodeStorageWrite ErrorCode = "STORAGE_WRITE"

	// Generic errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error carries a code, optional context and an optional user-facing
// message distinct from the internal one. Loader failures reach the end
// user only through UserMessage; the detailed chain goes to the logs.
type Error struct {
	Code        ErrorCode
	Message     string
	Underlying  error
	Context     map[string]any
	Retryable   bool
	UserMessage string
}

// New creates a structured error.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with a code and message. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]any),
	}
}

// WithContext adds a context key-value pair.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithUserMessage sets the human-friendly message shown to users.
func (e *Error) WithUserMessage(message string) *Error {
	e.UserMessage = message
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if len(e.Context) > 0 {
		sb.WriteString(" {")
		first := true
		for k, v := range e.Context {
			if !first {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s: %v", k, v))
			first = false
		}
		sb.WriteString("}")
	}
	if e.Underlying != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Underlying))
	}
	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// IsCode checks if an error carries a specific error code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	structured, ok := err.(*Error)
	if !ok {
		return false
	}
	return structured.Code == code
}

// GetCode extracts the error code, defaulting to ErrCodeInternal for
// unstructured errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	structured, ok := err.(*Error)
	if !ok {
		return ErrCodeInternal
	}
	return structured.Code
}

// UserMessageOf returns the user-facing message when the error carries one,
// falling back to a generic load-failure line.
func UserMessageOf(err error, fallback string) string {
	if structured, ok := err.(*Error); ok && structured.UserMessage != "" {
		return structured.UserMessage
	}
	return fallback
}
