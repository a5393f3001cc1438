package editor

import (
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_PreOrder(t *testing.T) {
	tree := []*Plugin{
		{Key: "a", Plugins: []*Plugin{
			{Key: "a1", Plugins: []*Plugin{{Key: "a1x"}}},
			{Key: "a2"},
		}},
		{Key: "b"},
	}

	flat := Flatten(tree)

	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, pluginKeys(flat))
	assert.Nil(t, flat[0].ParentKeys)
	assert.Equal(t, []string{"a"}, flat[1].ParentKeys)
	assert.Equal(t, []string{"a", "a1"}, flat[2].ParentKeys)
	for _, p := range flat {
		assert.Nil(t, p.Plugins, p.Key)
	}
	assert.Len(t, tree[0].Plugins, 2, "input tree is not modified")
}

func TestFlatten_DuplicateKeys(t *testing.T) {
	flat := Flatten([]*Plugin{
		{Key: "x", Priority: 1, Options: Options{"a": 1}},
		{Key: "y", Plugins: []*Plugin{{Key: "x", Priority: 3, Options: Options{"b": 2}}}},
		{Key: "x", Type: "last"},
	})

	require.Equal(t, []string{"x", "y"}, pluginKeys(flat))
	x := flat[0]
	assert.Equal(t, 3, x.Priority)
	assert.Equal(t, "last", x.Type)
	assert.Equal(t, Options{"a": 1, "b": 2}, x.Options)
	assert.Nil(t, x.ParentKeys)
}

func TestFlatten_Empty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
}

func TestResolveOverrides_Order(t *testing.T) {
	comp := &stubComponent{name: "c"}
	list := Flatten([]*Plugin{{Key: "a"}, {Key: "b"}})

	got := ResolveOverrides(list, Override{
		Plugins:    map[string]*Plugin{"a": {Type: "patched", Enabled: Bool(true)}},
		Components: map[string]templ.Component{"a": comp},
		Enabled:    map[string]bool{"a": false},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "patched", got[0].Type)
	assert.Same(t, comp, got[0].Component)
	assert.False(t, got[0].IsEnabled(), "enabled pass runs last")
	assert.True(t, list[0].IsEnabled(), "input list is not modified")
	assert.Nil(t, list[0].Component)
}

func TestResolveOverrides_Empty(t *testing.T) {
	list := Flatten([]*Plugin{{Key: "a"}})
	assert.True(t, Override{}.IsEmpty())
	assert.Equal(t, pluginKeys(list), pluginKeys(ResolveOverrides(list, Override{})))
}

func TestResolveOverrides_PatchChildrenAppended(t *testing.T) {
	list := Flatten([]*Plugin{{Key: "a"}, {Key: "b"}})

	got := ResolveOverrides(list, Override{
		Plugins: map[string]*Plugin{
			"a": {Plugins: []*Plugin{{Key: "a1", Plugins: []*Plugin{{Key: "a1x"}}}, {Key: "b", Type: "merged"}}},
		},
	})

	assert.Equal(t, []string{"a", "b", "a1", "a1x"}, pluginKeys(got))
	assert.Equal(t, "merged", got[1].Type)
	assert.Equal(t, []string{"a", "a1"}, got[3].ParentKeys)
}

func TestFilterDisabled(t *testing.T) {
	list := Flatten([]*Plugin{
		{Key: "a", Enabled: Bool(false), Plugins: []*Plugin{{Key: "a1", Enabled: Bool(true)}}},
		{Key: "b"},
	})

	got := filterDisabled(list)
	assert.Equal(t, []string{"b"}, pluginKeys(got))
}
