package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/a-h/templ"
	"github.com/conneroisu/plate/internal/deserialize"
	"github.com/conneroisu/plate/internal/editor"
	plateerrors "github.com/conneroisu/plate/internal/errors"
	"github.com/conneroisu/plate/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullManifest = `
id: doc
presets: [paragraph, heading]
plugins:
  - key: callout
    type: aside-callout
    priority: 10
    component: Callout
    options:
      tone: info
    html:
      - nodeNames: [ASIDE]
        props: {tone: note}
  - preset: link
  - key: titles
    preset: normalizeTypes
    options:
      rules:
        - path: [0]
          type: h1
          strict: true
  - key: table
    plugins:
      - key: tr
        plugins:
          - key: td
override:
  components:
    p: Paragraph
  plugins:
    callout:
      type: callout
  enabled:
    td: false
configure:
  length:
    maxLength: 500
editor:
  autoSelect: end
  normalize: true
  value:
    - type: p
      children:
        - text: hello
`

func testRegistry() *registry.ComponentRegistry {
	reg := registry.NewComponentRegistry()
	for _, name := range []string{"Callout", "Paragraph"} {
		n := name
		reg.Register(n, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, n)
			return err
		}))
	}
	return reg
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(fullManifest))
	require.NoError(t, err)

	assert.Equal(t, "doc", m.ID)
	assert.Equal(t, []string{"paragraph", "heading"}, m.Presets)
	require.Len(t, m.Plugins, 4)
	assert.Equal(t, "callout", m.Plugins[0].Key)
	assert.Equal(t, 10, m.Plugins[0].Priority)
	assert.Equal(t, "info", m.Plugins[0].Options["tone"])
	assert.Equal(t, []string{"ASIDE"}, m.Plugins[0].HTML[0].NodeNames)
	assert.Equal(t, "link", m.Plugins[1].Preset)
	assert.Equal(t, "Paragraph", m.Override.Components["p"])
	assert.False(t, m.Override.Enabled["td"])
	assert.Equal(t, 500, m.Configure["length"]["maxLength"])
	assert.Equal(t, "end", m.Editor.AutoSelect)
	assert.Len(t, m.Editor.Value, 1)
}

func TestParseManifest_CaseSensitiveKeys(t *testing.T) {
	m, err := ParseManifest([]byte("id: x\noverride:\n  enabled:\n    insertData: false\n"))
	require.NoError(t, err)
	_, ok := m.Override.Enabled["insertData"]
	assert.True(t, ok)
}

func TestParseManifest_UnknownField(t *testing.T) {
	_, err := ParseManifest([]byte("id: x\nplugns: []\n"))
	require.Error(t, err)
	assert.True(t, plateerrors.IsValidationError(err))
}

func TestParseManifest_Empty(t *testing.T) {
	m, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, m.ID)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullManifest), 0o600))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "doc", m.ID)

	_, err = LoadManifest(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, plateerrors.ErrorTypeIO, plateerrors.GetErrorType(err))
}

func TestManifest_MarshalRoundTrip(t *testing.T) {
	m, err := ParseManifest([]byte(fullManifest))
	require.NoError(t, err)

	data, err := m.Marshal()
	require.NoError(t, err)

	again, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestManifest_CreateEditor(t *testing.T) {
	m, err := ParseManifest([]byte(fullManifest))
	require.NoError(t, err)

	e, err := m.CreateEditor(testRegistry())
	require.NoError(t, err)

	callout := editor.GetPlugin(e, "callout")
	assert.Equal(t, "callout", callout.Type)
	assert.NotNil(t, callout.Component)
	assert.Equal(t, 10, callout.Priority)

	link := editor.GetPlugin(e, "a")
	assert.True(t, link.Options.Bool("isInline"))

	assert.NotNil(t, editor.GetPlugin(e, "p").Component)
	assert.True(t, editor.IsPluginEnabled(e, "tr"))
	assert.False(t, editor.IsPluginEnabled(e, "td"))
	assert.Equal(t, 500, e.MaxLength)

	// normalizeTypes retyped the first block, then auto-select ran.
	require.Len(t, e.Children, 1)
	assert.Equal(t, "h1", e.Children[0].Type)
	require.NotNil(t, e.Selection)
	assert.Equal(t, 5, e.Selection.Focus.Offset)

	nodes, err := deserialize.HTML(e, "<aside>note</aside>")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "callout", nodes[0].Type)
	tone, _ := nodes[0].Prop("tone")
	assert.Equal(t, "note", tone)
}

func TestManifest_BuildErrors(t *testing.T) {
	t.Run("unknown component", func(t *testing.T) {
		m := &Manifest{ID: "x", Plugins: []PluginSpec{{Key: "a", Component: "Nope"}}}
		_, _, err := m.Build(testRegistry())
		require.Error(t, err)
		assert.True(t, plateerrors.IsConfigError(err))
		assert.ErrorIs(t, err, &plateerrors.PlateError{Type: plateerrors.ErrorTypeNotFound, Code: plateerrors.CodeUnknownComponent})
	})

	t.Run("component without registry", func(t *testing.T) {
		m := &Manifest{ID: "x", Override: OverrideSpec{Components: map[string]string{"p": "Paragraph"}}}
		_, _, err := m.Build(nil)
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		m := &Manifest{ID: "x", Editor: EditorSpec{Value: []interface{}{"not a node"}}}
		_, _, err := m.Build(nil)
		assert.True(t, plateerrors.IsValidationError(err))
	})

	t.Run("validation failure", func(t *testing.T) {
		m := &Manifest{}
		_, _, err := m.Build(nil)
		assert.ErrorIs(t, err, &plateerrors.PlateError{Type: plateerrors.ErrorTypeValidation, Code: plateerrors.CodeInvalidManifest})
	})
}

func TestManifest_EmptyValue(t *testing.T) {
	m := &Manifest{ID: "x", Editor: EditorSpec{Value: []interface{}{}}}
	_, slate, err := m.Build(nil)
	require.NoError(t, err)
	assert.NotNil(t, slate.Value)
	assert.Empty(t, slate.Value)

	m.Editor.Value = nil
	_, slate, err = m.Build(nil)
	require.NoError(t, err)
	assert.Nil(t, slate.Value)
}
