package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// External command errors
	ErrCommandFailed    ErrorCode = "COMMAND_FAILED"
	ErrCommandStart     ErrorCode = "COMMAND_START"
	ErrMalformedOutput  ErrorCode = "MALFORMED_OUTPUT"
	ErrIncompleteResult ErrorCode = "INCOMPLETE_RESULT"
	ErrSourceControl    ErrorCode = "SOURCE_CONTROL"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileRename ErrorCode = "FILE_RENAME"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrFileRemove ErrorCode = "FILE_REMOVE"
)

// TemplarError represents a structured error with code and details
type TemplarError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TemplarError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TemplarError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TemplarError) Is(target error) bool {
	var targetErr *TemplarError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TemplarError with the given code and message
func New(code ErrorCode, message string) *TemplarError {
	return &TemplarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TemplarError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TemplarError {
	return &TemplarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TemplarError
func Wrap(err error, code ErrorCode, message string) *TemplarError {
	if err == nil {
		return nil
	}
	return &TemplarError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TemplarError {
	if err == nil {
		return nil
	}
	return &TemplarError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TemplarError) WithDetail(key string, value interface{}) *TemplarError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code.
// Only the outermost TemplarError in the chain is consulted.
func IsErrorCode(err error, code ErrorCode) bool {
	var templarErr *TemplarError
	if errors.As(err, &templarErr) {
		return templarErr.Code == code
	}
	return false
}

// HasErrorCode reports whether any TemplarError in the chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var templarErr *TemplarError
		if !errors.As(err, &templarErr) {
			return false
		}
		if templarErr.Code == code {
			return true
		}
		err = templarErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TemplarError
func GetErrorCode(err error) ErrorCode {
	var templarErr *TemplarError
	if errors.As(err, &templarErr) {
		return templarErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TemplarError
func GetErrorDetails(err error) map[string]interface{} {
	var templarErr *TemplarError
	if errors.As(err, &templarErr) {
		return templarErr.Details
	}
	return nil
}

// As forwards to the standard library so callers need a single errors import
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is forwards to the standard library
func Is(err, target error) bool {
	return errors.Is(err, target)
}
