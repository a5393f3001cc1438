package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/deserialize"
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/mockdata"
	"github.com/conneroisu/plate/internal/registry"
	"github.com/conneroisu/plate/internal/render"
	"github.com/conneroisu/plate/internal/testutils"
	"github.com/conneroisu/plate/internal/watcher"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationManifest = `
id: site
presets: [basic]
plugins:
  - key: callout
    component: Callout
    options:
      tone: tip
    html:
      - nodeNames: [ASIDE]
override:
  components:
    h1: Heading
editor:
  normalize: true
  value:
    - type: h1
      children:
        - text: Welcome
    - type: callout
      children:
        - text: Read the docs
`

func defaultRegistry() *registry.ComponentRegistry {
	reg := registry.NewComponentRegistry()
	render.RegisterDefaults(reg)
	return reg
}

func TestIntegration_ManifestToHTML(t *testing.T) {
	dir := testutils.CreateTempProject(t, integrationManifest)

	manifest, err := config.LoadManifest(filepath.Join(dir, testutils.ManifestName))
	require.NoError(t, err)

	e, err := manifest.CreateEditor(defaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "site", e.ID)

	out, err := render.HTML(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, `<h1 id="welcome">Welcome</h1><aside class="callout callout-tip">Read the docs</aside>`, out)
}

func TestIntegration_WatcherRecompose(t *testing.T) {
	dir := testutils.CreateTempProject(t, integrationManifest)
	path := filepath.Join(dir, testutils.ManifestName)

	fw, err := watcher.NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	fw.AddFilter(watcher.ManifestFilter)
	fw.AddFilter(watcher.PathFilter(path))

	composed := make(chan string, 4)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		manifest, err := config.LoadManifest(path)
		if err != nil {
			return err
		}
		e, err := manifest.CreateEditor(defaultRegistry())
		if err != nil {
			return err
		}
		composed <- e.ID
		return nil
	})
	require.NoError(t, fw.AddPath(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))
	defer fw.Stop()

	testutils.WriteFile(t, dir, testutils.ManifestName, strings.Replace(integrationManifest, "id: site", "id: renamed", 1))

	select {
	case id := <-composed:
		assert.Equal(t, "renamed", id)
	case <-time.After(3 * time.Second):
		t.Fatal("manifest change was not recomposed")
	}
}

func TestIntegration_ConfigurationLoading(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PLATE_LOG_LEVEL", "debug")
	t.Setenv("PLATE_OUTPUT_FORMAT", "yaml")

	viper.SetEnvPrefix("PLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.Equal(t, config.DefaultWatchDebounce, cfg.Watch.Debounce)
}

func TestIntegration_ErrorHandling(t *testing.T) {
	dir := testutils.CreateTempProject(t, "id: broken\noverride:\n  components:\n    p: Nope\n")

	manifest, err := config.LoadManifest(filepath.Join(dir, testutils.ManifestName))
	require.NoError(t, err)

	_, err = manifest.CreateEditor(defaultRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nope")

	_, err = config.LoadManifest(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestIntegration_SampleRoundTrip(t *testing.T) {
	manifest, err := config.ParseManifest([]byte("id: sample\npresets: [basic]\n"))
	require.NoError(t, err)
	e, err := manifest.CreateEditor(defaultRegistry())
	require.NoError(t, err)

	sample, err := mockdata.NewGenerator(7).Document(e)
	require.NoError(t, err)
	e.Children = sample

	out, err := render.HTML(context.Background(), e)
	require.NoError(t, err)

	back, err := deserialize.HTML(e, out)
	require.NoError(t, err)
	require.Len(t, back, len(sample))
	for i := range sample {
		assert.Equal(t, sample[i].Type, back[i].Type, "block %d", i)
		assert.Equal(t, document.String(sample[i]), document.String(back[i]), "block %d", i)
	}
}
