package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrProfileNotFound  = errors.New("student profile not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Generation errors
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrGenerationFailed      = errors.New("generation failed")
)

// Messages shared between the API and its tests.
const (
	MsgNoActiveAccount  = "No active account found with the given credentials."
	MsgProfileNotFound  = "Student profile not found for the current user."
	MsgGenAIUnavailable = "Gemini API is not available. Configure genai.enabled and a GEMINI_API_KEY to enable it."
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError reports a single invalid field.
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// FieldErrors accumulates per-field validation messages.
type FieldErrors map[string]string

// Add records a message for field; the first message per field wins.
func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// Err returns nil when no field failed, a validation CustomError otherwise.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	fields := make(map[string]string, len(f))
	names := make([]string, 0, len(f))
	for k, v := range f {
		fields[k] = v
		names = append(names, k)
	}
	sort.Strings(names)
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: "invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Fields  map[string]string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// GenerationError is returned when every candidate model failed.
type GenerationError struct {
	Tried   []string
	LastErr error
}

func (e *GenerationError) Error() string {
	last := "no exception captured"
	if e.LastErr != nil {
		last = "last error: " + e.LastErr.Error()
	}
	return fmt.Sprintf("No usable model available. Tried models: %s, %s", strings.Join(e.Tried, ", "), last)
}

func (e *GenerationError) Unwrap() error {
	return ErrGenerationFailed
}
