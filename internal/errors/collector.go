package errors

import (
	"fmt"
	"sync"
)

// CodeMultipleErrors tags an error combining several others.
const CodeMultipleErrors = "MULTIPLE_ERRORS"

// ErrorCollector accumulates errors, e.g. every problem found while
// validating a manifest, so they can be reported together.
type ErrorCollector struct {
	errors []error
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{errors: make([]error, 0)}
}

// Add records err. nil is ignored.
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// Addf records a validation error with a formatted message.
func (ec *ErrorCollector) Addf(code, format string, args ...interface{}) {
	ec.Add(NewValidationError(code, fmt.Sprintf(format, args...)))
}

// Errors returns a copy of the collected errors.
func (ec *ErrorCollector) Errors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]error, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// HasErrors returns true if there are any errors.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Len returns the number of collected errors.
func (ec *ErrorCollector) Len() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors)
}

// Err returns nil, the single collected error, or a combined error.
func (ec *ErrorCollector) Err() error {
	return CombineErrors(ec.Errors()...)
}

// CombineErrors combines multiple errors into a single error. nil entries
// are dropped; a single remaining error is returned as is.
func CombineErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}

	messages := make([]string, len(nonNil))
	for i, err := range nonNil {
		messages[i] = err.Error()
	}

	errType := GetErrorType(nonNil[0])
	for _, err := range nonNil[1:] {
		if GetErrorType(err) != errType {
			errType = ErrorTypeInternal
			break
		}
	}

	return &PlateError{
		Type:    errType,
		Code:    CodeMultipleErrors,
		Message: fmt.Sprintf("%d errors occurred", len(nonNil)),
		Cause:   nonNil[0],
		Context: map[string]interface{}{
			"error_count": len(nonNil),
			"errors":      messages,
		},
	}
}
