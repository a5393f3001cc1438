package mockdata

import (
	"testing"

	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/conneroisu/plate/internal/presets"
	"github.com/conneroisu/plate/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodesByType(nodes []*document.Node) map[string][]*document.Node {
	out := make(map[string][]*document.Node)
	document.Walk(nodes, func(entry document.Entry) bool {
		if entry.Node.IsElement() {
			out[entry.Node.Type] = append(out[entry.Node.Type], entry.Node)
		}
		return true
	})
	return out
}

func TestGenerator_Deterministic(t *testing.T) {
	e := testutils.NewEditor(t, presets.Basic()...)

	first := NewGenerator(42).HTML(e)
	second := NewGenerator(42).HTML(e)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestGenerator_Document_Basic(t *testing.T) {
	e := testutils.NewEditor(t, presets.Basic()...)

	nodes, err := NewGenerator(DefaultSeed).Document(e)
	require.NoError(t, err)

	byType := nodesByType(nodes)
	for _, typ := range []string{"p", "h1", "h6", "blockquote", "code_block", "ul", "ol", "li", "hr", "a", "img"} {
		assert.NotEmpty(t, byType[typ], "expected a %s node", typ)
	}

	lang, ok := byType["code_block"][0].Prop("lang")
	require.True(t, ok)
	assert.NotEmpty(t, lang)

	url, ok := byType["img"][0].Prop("url")
	require.True(t, ok)
	assert.Contains(t, url, "https://via.placeholder.com/")

	href, ok := byType["a"][0].Prop("url")
	require.True(t, ok)
	assert.Contains(t, href, "https://")

	assert.Len(t, byType["ul"][0].Children, 2)
}

func TestGenerator_Document_Marks(t *testing.T) {
	e := testutils.NewEditor(t, presets.Basic()...)

	nodes, err := NewGenerator(DefaultSeed).Document(e)
	require.NoError(t, err)

	marked := make(map[string]bool)
	document.Walk(nodes, func(entry document.Entry) bool {
		n := entry.Node
		if n.IsText() {
			if v, ok := n.Prop(n.Text); ok && v == true {
				marked[n.Text] = true
			}
		}
		return true
	})

	for _, key := range []string{presets.KeyBold, presets.KeyItalic, presets.KeyUnderline, presets.KeyStrikethrough, presets.KeyCode} {
		assert.True(t, marked[key], "expected text %q marked %s", key, key)
	}
}

func TestGenerator_RequiredAttributes(t *testing.T) {
	note := &editor.Plugin{
		Key: "note",
		Handlers: editor.Handlers{
			DeserializeHTML: []editor.HTMLRule{{
				NodeNames:  []string{"DIV"},
				Attributes: map[string]string{"data-kind": "note", "data-id": "*"},
			}},
		},
	}
	e := testutils.NewEditor(t, presets.ParagraphPlugin(), note)

	gen := NewGenerator(DefaultSeed)
	src := gen.HTML(e)
	assert.Contains(t, src, `data-kind="note"`)
	assert.Contains(t, src, `data-id="`)

	nodes, err := NewGenerator(DefaultSeed).Document(e)
	require.NoError(t, err)
	assert.NotEmpty(t, nodesByType(nodes)["note"])
}

func TestGenerator_SkipsWildcardRules(t *testing.T) {
	e := testutils.NewEditor(t, presets.BoldPlugin())

	src := NewGenerator(DefaultSeed).HTML(e)
	assert.NotContains(t, src, "style=")
	assert.Contains(t, src, "<strong>bold</strong>")
}

func TestGenerator_NoRules(t *testing.T) {
	e := testutils.NewEditor(t)

	assert.Empty(t, NewGenerator(DefaultSeed).HTML(e))

	nodes, err := NewGenerator(DefaultSeed).Document(e)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.True(t, document.Equal(document.EmptyParagraph(), nodes[0]))
}

func TestGenerator_InlineWrappedInParagraph(t *testing.T) {
	e := testutils.NewEditor(t, presets.ParagraphPlugin(), presets.LinkPlugin())

	src := NewGenerator(DefaultSeed).HTML(e)
	assert.Regexp(t, `<p>See <a href="https://[^"]+">[A-Za-z ]+</a> for more\.</p>`, src)
}
