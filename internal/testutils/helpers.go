// Package testutils holds fixtures shared by the package tests: manifests
// on disk, settings, stub components and composed editors.
package testutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/conneroisu/plate/internal/registry"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// ManifestName is the manifest file CreateTempProject writes.
const ManifestName = "plate.yaml"

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// CreateTempProject creates a temporary project directory holding manifest
// as plate.yaml.
func CreateTempProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, ManifestName, manifest)
	return dir
}

// CreateTestConfig returns the default settings with overrides applied,
// keyed the way the settings file is ("log.level", "watch.debounce").
func CreateTestConfig(t *testing.T, overrides map[string]interface{}) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	for key, value := range overrides {
		v.Set(key, value)
	}
	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	return cfg
}

// StubComponent renders its children inside a div tagged with name.
func StubComponent(name string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div data-component="%s">`, name); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

// CreateTestRegistry returns a registry with a stub component for each name.
func CreateTestRegistry(names ...string) *registry.ComponentRegistry {
	reg := registry.NewComponentRegistry()
	for _, name := range names {
		reg.RegisterInfo(&registry.ComponentInfo{
			Name:        name,
			Description: "test stub",
			Component:   StubComponent(name),
		})
	}
	return reg
}

// NewEditor composes an editor from plugins with default slate options.
func NewEditor(t *testing.T, plugins ...*editor.Plugin) *editor.Editor {
	t.Helper()
	e, err := editor.CreateEditor(editor.Config{ID: t.Name(), Plugins: plugins}, editor.SlateOptions{})
	require.NoError(t, err)
	return e
}

// HostileHTML is pasted content that must never survive deserialization as
// markup.
var HostileHTML = []string{
	"<script>alert('xss')</script>",
	"<img src=x onerror=alert('xss')>",
	"<svg onload=alert('xss')>",
	"<iframe src=javascript:alert('xss')>",
	"<div onclick=alert('xss')>click</div>",
	"<style>body{display:none}</style>",
	"<template><p>hidden</p></template>",
}

// AssertFilePermissions checks the permission bits of path.
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)

	actualMode := info.Mode()
	require.Equal(t, expectedMode, actualMode&os.FileMode(0o777),
		"File %s has incorrect permissions: got %o, want %o",
		path, actualMode&os.FileMode(0o777), expectedMode)
}

// WaitFor polls cond until it holds, failing the test after timeout.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v", timeout)
}
