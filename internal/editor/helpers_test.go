package editor

import (
	"context"
	"io"
	"testing"
)

// stubComponent is a comparable templ.Component for identity assertions.
type stubComponent struct {
	name string
}

func (s *stubComponent) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, s.name)
	return err
}

func pluginKeys(plugins []*Plugin) []string {
	keys := make([]string, len(plugins))
	for i, p := range plugins {
		keys[i] = p.Key
	}
	return keys
}

func pluginTypes(plugins []*Plugin) []string {
	types := make([]string, len(plugins))
	for i, p := range plugins {
		types[i] = p.Type
	}
	return types
}

func mustCompose(t *testing.T, e *Editor, cfg Config) *Editor {
	t.Helper()
	if cfg.ID == "" {
		cfg.ID = "1"
	}
	composed, err := WithPlate(e, cfg)
	if err != nil {
		t.Fatalf("WithPlate: %v", err)
	}
	return composed
}
