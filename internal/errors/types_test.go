package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlateError_Error(t *testing.T) {
	err := NewConfigError(CodeHistoryMissing, "no history capability").
		WithPlugin("history").
		WithCause(fmt.Errorf("disabled by override"))

	msg := err.Error()
	assert.Contains(t, msg, "[HISTORY_MISSING]")
	assert.Contains(t, msg, "plugin:history")
	assert.Contains(t, msg, "no history capability")
	assert.Contains(t, msg, "disabled by override")
}

func TestPlateError_IsMatchesSentinel(t *testing.T) {
	err := NewConfigError(CodeHistoryMissing, "no history").WithContext("editor", "1")
	wrapped := fmt.Errorf("compose: %w", err)

	assert.True(t, errors.Is(wrapped, ErrHistoryMissing))
	assert.False(t, errors.Is(wrapped, ErrMissingID))
	assert.False(t, errors.Is(wrapped, ErrNormalizationOverrun))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"config", NewConfigError(CodeMissingID, "x"), IsConfigError},
		{"not found", NewNotFoundError(CodePluginNotFound, "x"), IsNotFoundError},
		{"normalization", NewNormalizationError(CodeNormalizationOverrun, "x"), IsNormalizationError},
		{"validation", NewValidationError(CodeLengthExceeded, "x"), IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(NewNotFoundError(CodePluginNotFound, "missing")))
	assert.False(t, IsRecoverable(NewConfigError(CodeHistoryMissing, "missing")))
	assert.False(t, IsRecoverable(errors.New("plain")))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeIO, GetErrorType(NewIOError("READ", "read failed", nil)))
	assert.Equal(t, ErrorTypeInternal, GetErrorType(errors.New("plain")))
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, WrapConfig(nil, CodeInvalidManifest, "x"))

	cause := errors.New("bad yaml")
	err := WrapValidation(cause, CodeInvalidManifest, "manifest invalid")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeValidation, err.Type)
}

func TestErrorCollector(t *testing.T) {
	ec := NewErrorCollector()
	assert.False(t, ec.HasErrors())
	assert.NoError(t, ec.Err())

	ec.Add(nil)
	ec.Addf(CodeInvalidManifest, "plugin %d has no key", 2)
	assert.Equal(t, 1, ec.Len())
	assert.True(t, IsValidationError(ec.Err()))

	ec.Add(NewValidationError(CodeUnknownComponent, "unknown component"))
	err := ec.Err()
	var pe *PlateError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, CodeMultipleErrors, pe.Code)
	assert.Equal(t, ErrorTypeValidation, pe.Type)
	assert.Equal(t, 2, pe.Context["error_count"])
}

func TestCombineErrors(t *testing.T) {
	assert.NoError(t, CombineErrors(nil, nil))

	single := errors.New("one")
	assert.Same(t, single, CombineErrors(nil, single))

	mixed := CombineErrors(NewConfigError(CodeMissingID, "a"), NewValidationError(CodeInvalidPath, "b"))
	assert.Equal(t, ErrorTypeInternal, GetErrorType(mixed))
	assert.True(t, errors.Is(mixed, ErrMissingID))
}
