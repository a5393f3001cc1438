// Package errors defines the structured error type shared by the plate
// packages. Errors carry a category, a stable code, and optional context so
// callers can branch with errors.Is / errors.As instead of matching strings.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeNormalization ErrorType = "normalization"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeIO            ErrorType = "io"
	ErrorTypeInternal      ErrorType = "internal"
)

// Error codes.
const (
	CodeHistoryMissing        = "HISTORY_MISSING"
	CodeMissingID             = "MISSING_ID"
	CodeNormalizationOverrun  = "NORMALIZATION_OVERRUN"
	CodeNormalizeRuleFailed   = "NORMALIZE_RULE_FAILED"
	CodePluginNotFound        = "PLUGIN_NOT_FOUND"
	CodePluginDisabled        = "PLUGIN_DISABLED"
	CodeLengthExceeded        = "LENGTH_EXCEEDED"
	CodeInvalidPath           = "INVALID_PATH"
	CodeInvalidManifest       = "INVALID_MANIFEST"
	CodeUnknownComponent      = "UNKNOWN_COMPONENT"
	CodeUnsupportedFormat     = "UNSUPPORTED_FORMAT"
	CodeDeserializationFailed = "DESERIALIZATION_FAILED"
	CodeInvalidPlugin         = "INVALID_PLUGIN"
	CodeExtendEditorFailed    = "EXTEND_EDITOR_FAILED"
)

// PlateError is a structured error type with context.
type PlateError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Plugin      string
	Recoverable bool
}

// Error implements the error interface.
func (e *PlateError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Plugin != "" {
		parts = append(parts, "plugin:"+e.Plugin)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *PlateError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a PlateError of the same type and code.
func (e *PlateError) Is(target error) bool {
	var t *PlateError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *PlateError) WithContext(key string, value interface{}) *PlateError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPlugin records the plugin key the error relates to.
func (e *PlateError) WithPlugin(key string) *PlateError {
	e.Plugin = key

	return e
}

// WithCause attaches an underlying error.
func (e *PlateError) WithCause(cause error) *PlateError {
	e.Cause = cause

	return e
}

// Sentinels for errors.Is comparisons. They only carry type and code, so a
// returned error with extra context still matches.
var (
	ErrHistoryMissing       = &PlateError{Type: ErrorTypeConfig, Code: CodeHistoryMissing}
	ErrMissingID            = &PlateError{Type: ErrorTypeConfig, Code: CodeMissingID}
	ErrNormalizationOverrun = &PlateError{Type: ErrorTypeNormalization, Code: CodeNormalizationOverrun}
	ErrPluginNotFound       = &PlateError{Type: ErrorTypeNotFound, Code: CodePluginNotFound}
	ErrPluginDisabled       = &PlateError{Type: ErrorTypeConfig, Code: CodePluginDisabled}
	ErrLengthExceeded       = &PlateError{Type: ErrorTypeValidation, Code: CodeLengthExceeded}
	ErrInvalidPath          = &PlateError{Type: ErrorTypeValidation, Code: CodeInvalidPath}
)

// Error creation functions

// NewConfigError creates a configuration error. Configuration errors are
// raised at the composition boundary and are never recoverable.
func NewConfigError(code, message string) *PlateError {
	return &PlateError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewNotFoundError creates a lookup miss.
func NewNotFoundError(code, message string) *PlateError {
	return &PlateError{
		Type:        ErrorTypeNotFound,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewNormalizationError creates a normalization error.
func NewNormalizationError(code, message string) *PlateError {
	return &PlateError{
		Type:        ErrorTypeNormalization,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *PlateError {
	return &PlateError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *PlateError {
	return &PlateError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *PlateError {
	return &PlateError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Error recovery and handling utilities

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var pe *PlateError
	if errors.As(err, &pe) {
		return pe.Recoverable
	}

	return false
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

// IsNotFoundError checks if an error is a lookup miss.
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsNormalizationError checks if an error came from the normalization loop.
func IsNormalizationError(err error) bool {
	return hasType(err, ErrorTypeNormalization)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

func hasType(err error, t ErrorType) bool {
	var pe *PlateError
	if errors.As(err, &pe) {
		return pe.Type == t
	}

	return false
}

// GetErrorType returns the error type if it's a PlateError.
func GetErrorType(err error) ErrorType {
	var pe *PlateError
	if errors.As(err, &pe) {
		return pe.Type
	}

	return ErrorTypeInternal
}

// WrapConfig wraps an error as a configuration error.
func WrapConfig(err error, code, message string) *PlateError {
	if err == nil {
		return nil
	}

	return NewConfigError(code, message).WithCause(err)
}

// WrapValidation wraps an error as a validation error.
func WrapValidation(err error, code, message string) *PlateError {
	if err == nil {
		return nil
	}

	return NewValidationError(code, message).WithCause(err)
}
