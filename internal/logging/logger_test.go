package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"off", LevelSilent, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlateLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	logger.WithComponent("composer").
		With("editor", "doc-1").
		Error(context.Background(), errors.New("boom"), "composition failed", "plugins", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "composition failed", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "composer", entry["component"])
	assert.Equal(t, "doc-1", entry["editor"])
	assert.Equal(t, "boom", entry["error"])
	assert.EqualValues(t, 3, entry["plugins"])
}

func TestPlateLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Output: &buf})

	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "hidden too")
	assert.Empty(t, buf.String())

	logger.Warn(context.Background(), nil, "visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.Equal(t, LevelSilent, logger.Level())

	// Must not panic with a nil context or odd field counts.
	logger.Error(nil, errors.New("ignored"), "nothing", "dangling")
}

func TestWith_DoesNotMutateParent(t *testing.T) {
	parent := NewLogger(&LoggerConfig{Level: LevelDebug, Output: &bytes.Buffer{}})
	child := parent.With("key", "value").(*PlateLogger)

	assert.Empty(t, parent.fields)
	assert.Equal(t, "value", child.fields["key"])
}
