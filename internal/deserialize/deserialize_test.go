package deserialize_test

import (
	"testing"

	"github.com/conneroisu/plate/internal/deserialize"
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
	plateerrors "github.com/conneroisu/plate/internal/errors"
	"github.com/conneroisu/plate/internal/presets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func newEditor(t *testing.T, cfg editor.Config) *editor.Editor {
	t.Helper()
	if cfg.ID == "" {
		cfg.ID = "test"
	}
	if cfg.Plugins == nil {
		cfg.Plugins = presets.Basic()
	}
	e, err := editor.CreateEditor(cfg, editor.SlateOptions{})
	require.NoError(t, err)
	return e
}

func TestHTML_Blocks(t *testing.T) {
	e := newEditor(t, editor.Config{})

	nodes, err := deserialize.HTML(e, "<h1>Title</h1>\n<p>Hello <strong>bold</strong> <em>world</em></p>")
	require.NoError(t, err)

	want := []*document.Node{
		document.NewElement("h1", document.NewText("Title")),
		document.NewElement("p",
			document.NewText("Hello "),
			&document.Node{Text: "bold", Props: map[string]interface{}{"bold": true}},
			document.NewText(" "),
			&document.Node{Text: "world", Props: map[string]interface{}{"italic": true}},
		),
	}
	assert.True(t, document.EqualAll(want, nodes), document.String(&document.Node{Children: nodes}))
}

func TestHTML_LooseTextWrapped(t *testing.T) {
	e := newEditor(t, editor.Config{})

	nodes, err := deserialize.HTML(e, `plain <a href="https://x.test">link</a><p>block</p>tail`)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Equal(t, "p", nodes[0].Type)
	require.Len(t, nodes[0].Children, 2)
	link := nodes[0].Children[1]
	assert.Equal(t, "a", link.Type)
	url, _ := link.Prop("url")
	assert.Equal(t, "https://x.test", url)

	assert.Equal(t, "p", nodes[1].Type)
	assert.Equal(t, "p", nodes[2].Type)
	assert.Equal(t, "tail", nodes[2].Children[0].Text)
}

func TestHTML_LineBreak(t *testing.T) {
	e := newEditor(t, editor.Config{})

	nodes, err := deserialize.HTML(e, "<p>a<br>b</p>")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	var text string
	for _, c := range nodes[0].Children {
		text += c.Text
	}
	assert.Equal(t, "a\nb", text)
}

func TestHTML_UnknownElementsUnwrap(t *testing.T) {
	e := newEditor(t, editor.Config{})

	nodes, err := deserialize.HTML(e, "<div><section><p>x</p></section></div><script>alert(1)</script>")
	require.NoError(t, err)
	assert.True(t, document.EqualAll([]*document.Node{
		document.NewElement("p", document.NewText("x")),
	}, nodes))
}

func TestHTML_VoidElement(t *testing.T) {
	e := newEditor(t, editor.Config{})

	nodes, err := deserialize.HTML(e, `<img src="/a.png" alt="A">`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "img", nodes[0].Type)
	assert.Len(t, nodes[0].Children, 1, "void elements still carry an empty text")
	alt, _ := nodes[0].Prop("alt")
	assert.Equal(t, "A", alt)
}

func TestHTML_StyleMarks(t *testing.T) {
	e := newEditor(t, editor.Config{})

	nodes, err := deserialize.HTML(e, `<p><span style="font-weight: 700; font-style:italic">x</span></p>`)
	require.NoError(t, err)
	leaf := nodes[0].Children[0]
	bold, _ := leaf.Prop("bold")
	italic, _ := leaf.Prop("italic")
	assert.Equal(t, true, bold)
	assert.Equal(t, true, italic)
}

func TestHTML_CodeBlock(t *testing.T) {
	e := newEditor(t, editor.Config{})

	nodes, err := deserialize.HTML(e, `<pre><code class="language-go">x := 1</code></pre>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "code_block", nodes[0].Type)
	lang, _ := nodes[0].Prop("lang")
	assert.Equal(t, "go", lang)
	_, marked := nodes[0].Children[0].Prop("code")
	assert.False(t, marked)
}

func TestHTML_LaterPluginsShadowEarlier(t *testing.T) {
	e := newEditor(t, editor.Config{Plugins: []*editor.Plugin{
		presets.ParagraphPlugin(),
		{
			Key: "lead",
			Handlers: editor.Handlers{DeserializeHTML: []editor.HTMLRule{{
				NodeNames:  []string{"P"},
				Attributes: map[string]string{"class": "lead"},
			}}},
		},
	}})
	assert.Equal(t, deserialize.Reverse, deserialize.ElementOrder)

	nodes, err := deserialize.HTML(e, `<p class="lead">a</p><p>b</p>`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "lead", nodes[0].Type)
	assert.Equal(t, "p", nodes[1].Type)
}

func TestHTML_Disabled(t *testing.T) {
	e := newEditor(t, editor.Config{
		Override: editor.Override{Enabled: map[string]bool{editor.KeyDeserializeHTML: false}},
	})

	_, err := deserialize.HTML(e, "<p>x</p>")
	assert.ErrorIs(t, err, plateerrors.ErrPluginDisabled)
}

func TestPipeHTMLElement(t *testing.T) {
	e := newEditor(t, editor.Config{})

	h2 := &html.Node{Type: html.ElementNode, Data: "h2"}
	props, ok := deserialize.PipeHTMLElement(e, h2)
	require.True(t, ok)
	assert.Equal(t, "h2", props["type"])

	_, ok = deserialize.PipeHTMLElement(e, &html.Node{Type: html.ElementNode, Data: "aside"})
	assert.False(t, ok)

	// A link without href produces nothing, so the scan moves on.
	_, ok = deserialize.PipeHTMLElement(e, &html.Node{Type: html.ElementNode, Data: "a"})
	assert.False(t, ok)
}

func TestMatches(t *testing.T) {
	el := &html.Node{Type: html.ElementNode, Data: "div", Attr: []html.Attribute{{Key: "data-x", Val: "1"}}}

	assert.True(t, deserialize.Matches(editor.HTMLRule{NodeNames: []string{"DIV"}}, el))
	assert.True(t, deserialize.Matches(editor.HTMLRule{NodeNames: []string{"*"}}, el))
	assert.False(t, deserialize.Matches(editor.HTMLRule{NodeNames: []string{"P"}}, el))
	assert.True(t, deserialize.Matches(editor.HTMLRule{Attributes: map[string]string{"data-x": "*"}}, el))
	assert.False(t, deserialize.Matches(editor.HTMLRule{Attributes: map[string]string{"data-x": "2"}}, el))
	assert.False(t, deserialize.Matches(editor.HTMLRule{}, el))
	assert.False(t, deserialize.Matches(editor.HTMLRule{
		NodeNames: []string{"DIV"},
		Query:     func(*html.Node) bool { return false },
	}, el))
}

func TestAST_RoundTrip(t *testing.T) {
	e := newEditor(t, editor.Config{})
	fragment := []*document.Node{
		document.NewElement("p", document.NewText("100% + more")),
	}

	encoded, err := deserialize.EncodeAST(fragment)
	require.NoError(t, err)

	decoded, err := deserialize.AST(e, encoded)
	require.NoError(t, err)
	assert.True(t, document.EqualAll(fragment, decoded))
}

func TestAST_Invalid(t *testing.T) {
	e := newEditor(t, editor.Config{})

	_, err := deserialize.AST(e, "not base64!")
	require.Error(t, err)
	assert.True(t, plateerrors.IsValidationError(err))
}

func TestInsertData(t *testing.T) {
	e := newEditor(t, editor.Config{})
	require.Len(t, e.Children, 1)

	inserted, err := deserialize.InsertData(e, deserialize.MIMEText, "one\ntwo")
	require.NoError(t, err)
	assert.Len(t, inserted, 2)
	assert.Len(t, e.Children, 3)
	assert.Equal(t, "two", e.Children[2].Children[0].Text)
	assert.Len(t, e.History.Undos, 1, "one insertion is one undo step")
}

func TestInsertData_AfterSelection(t *testing.T) {
	e := newEditor(t, editor.Config{})
	_, err := deserialize.InsertData(e, deserialize.MIMEText, "a\nb")
	require.NoError(t, err)

	e.Selection = document.Collapse(document.Point{Path: document.Path{0, 0}})
	_, err = deserialize.InsertData(e, deserialize.MIMEHTML, "<h1>mid</h1>")
	require.NoError(t, err)
	assert.Equal(t, "h1", e.Children[1].Type)
}

func TestInsertData_Gates(t *testing.T) {
	t.Run("insertData disabled", func(t *testing.T) {
		e := newEditor(t, editor.Config{
			Override: editor.Override{Enabled: map[string]bool{editor.KeyInsertData: false}},
		})
		_, err := deserialize.InsertData(e, deserialize.MIMEText, "x")
		assert.ErrorIs(t, err, plateerrors.ErrPluginDisabled)
	})

	t.Run("deserializeAst disabled", func(t *testing.T) {
		e := newEditor(t, editor.Config{
			Override: editor.Override{Enabled: map[string]bool{editor.KeyDeserializeAST: false}},
		})
		encoded, err := deserialize.EncodeAST([]*document.Node{document.EmptyParagraph()})
		require.NoError(t, err)
		_, err = deserialize.InsertData(e, deserialize.MIMEFragment, encoded)
		assert.ErrorIs(t, err, plateerrors.ErrPluginDisabled)
	})

	t.Run("unsupported type", func(t *testing.T) {
		e := newEditor(t, editor.Config{})
		_, err := deserialize.InsertData(e, "image/png", "x")
		assert.True(t, plateerrors.IsValidationError(err))
	})

	t.Run("length guard", func(t *testing.T) {
		e := newEditor(t, editor.Config{
			RootPlugin: func(root *editor.Plugin) *editor.Plugin {
				return root.ConfigurePlugin(editor.KeyLength, editor.Options{"maxLength": 3})
			},
		})
		_, err := deserialize.InsertData(e, deserialize.MIMEText, "four")
		assert.ErrorIs(t, err, plateerrors.ErrLengthExceeded)
		assert.Len(t, e.Children, 1)
	})
}
