package document

import (
	"encoding/json"
	"testing"

	"github.com/conneroisu/plate/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []*Node {
	return []*Node{
		NewElement("h1", NewText("Title")),
		NewElement("p",
			NewText("Hello "),
			&Node{Text: "world", Props: map[string]interface{}{"bold": true}},
		),
	}
}

func TestNode_IsText(t *testing.T) {
	assert.True(t, NewText("").IsText())
	assert.False(t, NewElement("p").IsText())
	assert.False(t, (&Node{Children: []*Node{}}).IsText())
	assert.NotNil(t, NewElement("p").Children)
}

func TestStartEnd(t *testing.T) {
	nodes := sample()

	start, ok := Start(nodes)
	require.True(t, ok)
	assert.Equal(t, Point{Path: Path{0, 0}, Offset: 0}, start)

	end, ok := End(nodes)
	require.True(t, ok)
	assert.Equal(t, Point{Path: Path{1, 1}, Offset: 5}, end)
}

func TestStartEnd_NoText(t *testing.T) {
	_, ok := Start(nil)
	assert.False(t, ok)

	_, ok = End([]*Node{NewElement("p")})
	assert.False(t, ok)
}

func TestEnd_CountsRunes(t *testing.T) {
	end, ok := End([]*Node{NewElement("p", NewText("héllo"))})
	require.True(t, ok)
	assert.Equal(t, 5, end.Offset)
}

func TestGet(t *testing.T) {
	nodes := sample()

	n, ok := Get(nodes, Path{1, 1})
	require.True(t, ok)
	assert.Equal(t, "world", n.Text)

	_, ok = Get(nodes, Path{})
	assert.False(t, ok)
	_, ok = Get(nodes, Path{5})
	assert.False(t, ok)
}

func TestInsertRemove(t *testing.T) {
	nodes := sample()

	nodes, err := Insert(nodes, Path{1}, NewElement("h2", NewText("")))
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "h2", nodes[1].Type)

	nodes, err = Insert(nodes, Path{0, 1}, NewText("!"))
	require.NoError(t, err)
	assert.Equal(t, "Title!", String(nodes[0]))

	nodes, removed, err := Remove(nodes, Path{1})
	require.NoError(t, err)
	assert.Equal(t, "h2", removed.Type)
	assert.Len(t, nodes, 2)

	_, err = Insert(nodes, Path{0, 0, 0}, NewText("x"))
	assert.ErrorIs(t, err, errors.ErrInvalidPath)

	_, _, err = Remove(nodes, Path{9})
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}

func TestWalk_PreOrder(t *testing.T) {
	var paths []string
	Walk(sample(), func(e Entry) bool {
		paths = append(paths, e.Path.String())
		return true
	})
	assert.Equal(t, []string{"[0]", "[0 0]", "[1]", "[1 0]", "[1 1]"}, paths)
	assert.Equal(t, 5, Count(sample()))
}

func TestJSONRoundTrip(t *testing.T) {
	nodes := sample()
	data, err := json.Marshal(nodes)
	require.NoError(t, err)

	var decoded []*Node
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, EqualAll(nodes, decoded))
}

func TestFromValue(t *testing.T) {
	value := []interface{}{
		map[string]interface{}{
			"type":     "p",
			"align":    "center",
			"children": []interface{}{map[string]interface{}{"text": "Hello", "italic": true}},
		},
	}

	nodes, err := FromValue(value)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "p", nodes[0].Type)
	assert.Equal(t, "center", nodes[0].Props["align"])
	assert.Equal(t, "Hello", nodes[0].Children[0].Text)
	assert.Equal(t, true, nodes[0].Children[0].Props["italic"])

	_, err = FromValue([]interface{}{map[string]interface{}{"align": "left"}})
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	orig := sample()
	cp := CloneAll(orig)
	cp[1].Children[1].Props["bold"] = false
	cp[0].Children[0].Text = "changed"

	assert.Equal(t, true, orig[1].Children[1].Props["bold"])
	assert.Equal(t, "Title", orig[0].Children[0].Text)
	assert.False(t, EqualAll(orig, cp))
}

func TestLength(t *testing.T) {
	assert.Equal(t, 16, Length(sample()))
}

func TestCollapse(t *testing.T) {
	r := Collapse(Point{Path: Path{0, 0}, Offset: 3})
	assert.True(t, r.IsCollapsed())
}
