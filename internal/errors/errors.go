package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a studio error code.
type ErrorCode string

const (
	ErrInvalidParameter ErrorCode = "INVALID_PARAMETER" // 400
	ErrInvalidDimension ErrorCode = "INVALID_DIMENSION" // 400
	ErrInvalidCommand   ErrorCode = "INVALID_COMMAND"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrSessionNotFound  ErrorCode = "SESSION_NOT_FOUND" // 404
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"    // 404
	ErrNoCurrentImage   ErrorCode = "NO_CURRENT_IMAGE"  // 409
	ErrAlreadyExists    ErrorCode = "ALREADY_EXISTS"    // 409
	ErrDecode           ErrorCode = "DECODE_ERROR"      // 422
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// StudioError represents a structured error with code, status, and details.
type StudioError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *StudioError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *StudioError) Unwrap() error {
	return e.cause
}

// NewInvalidParameter creates a 400 error for a rejected width, height, brightness or contrast value.
func NewInvalidParameter(msg string) *StudioError {
	return &StudioError{
		Code:    ErrInvalidParameter,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidDimension creates a 400 error for a non-positive resample target.
func NewInvalidDimension(width, height int) *StudioError {
	return &StudioError{
		Code:    ErrInvalidDimension,
		Status:  400,
		Message: fmt.Sprintf("target dimensions must be positive: %dx%d", width, height),
		Details: map[string]any{"width": width, "height": height},
	}
}

// NewInvalidCommand creates a 400 error for input the command parser rejected.
func NewInvalidCommand(msg string) *StudioError {
	return &StudioError{
		Code:    ErrInvalidCommand,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an image key is not in the studio.
func NewNotFound(key string) *StudioError {
	return &StudioError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("image not found: %s", key),
		Details: map[string]any{"key": key},
	}
}

// NewSessionNotFound creates a 404 error for an unknown saved session.
func NewSessionNotFound(name string) *StudioError {
	return &StudioError{
		Code:    ErrSessionNotFound,
		Status:  404,
		Message: fmt.Sprintf("session not found: %s", name),
		Details: map[string]any{"name": name},
	}
}

// NewFileNotFound creates a 404 error for a missing session file.
func NewFileNotFound(path string) *StudioError {
	return &StudioError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNoCurrentImage creates a 409 error for a render with nothing selected.
func NewNoCurrentImage() *StudioError {
	return &StudioError{
		Code:    ErrNoCurrentImage,
		Status:  409,
		Message: "no current image selected",
	}
}

// NewAlreadyExists creates a 409 error for a colliding image key.
// Callers treat it as a notice: the existing entry is left as it was.
func NewAlreadyExists(key string) *StudioError {
	return &StudioError{
		Code:    ErrAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("image %q already exists", key),
		Details: map[string]any{"key": key},
	}
}

// NewDecode creates a 422 error for a missing, unsupported or corrupt source file.
func NewDecode(path string, cause error) *StudioError {
	msg := fmt.Sprintf("failed to decode image %s", path)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &StudioError{
		Code:    ErrDecode,
		Status:  422,
		Message: msg,
		Details: map[string]any{"path": path},
		cause:   cause,
	}
}

// NewCancelled creates a 499 error when an operation is cancelled via context.
func NewCancelled(op string) *StudioError {
	return &StudioError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StudioError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StudioError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is a StudioError with the given code.
// Wrapped errors are unwrapped.
func Is(err error, code ErrorCode) bool {
	var sErr *StudioError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As returns the StudioError in err's chain, if any.
func As(err error) (*StudioError, bool) {
	var sErr *StudioError
	ok := stderrors.As(err, &sErr)
	return sErr, ok
}
