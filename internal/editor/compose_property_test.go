//go:build property

package editor

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPluginTree builds a small plugin tree whose keys are drawn from a
// narrow alphabet so duplicates are common.
func genPluginTree() gopter.Gen {
	return gen.SliceOfN(6, gen.IntRange(0, 7)).Map(func(ids []int) []*Plugin {
		plugins := make([]*Plugin, 0, len(ids))
		for i, id := range ids {
			p := &Plugin{Key: fmt.Sprintf("p%d", id), Priority: i % 3}
			if id%2 == 0 {
				p.Plugins = []*Plugin{{Key: fmt.Sprintf("p%d", (id+3)%8)}}
			}
			plugins = append(plugins, p)
		}
		return plugins
	})
}

// TestCompositionProperties validates plugin resolution properties
func TestCompositionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: resolved keys are unique
	properties.Property("keys are unique after composition", prop.ForAll(
		func(plugins []*Plugin) bool {
			e, err := WithPlate(New(), Config{ID: "prop", Plugins: plugins})
			if err != nil {
				return false
			}
			seen := map[string]bool{}
			for _, p := range e.PluginList {
				if seen[p.Key] {
					return false
				}
				seen[p.Key] = true
			}
			return e.Plugins.Len() == len(e.PluginList)
		},
		genPluginTree(),
	))

	// Property: composition is deterministic
	properties.Property("same inputs give the same plugin list", prop.ForAll(
		func(plugins []*Plugin, disabled int) bool {
			cfg := Config{
				ID:       "prop",
				Plugins:  plugins,
				Override: Override{Enabled: map[string]bool{fmt.Sprintf("p%d", disabled): false}},
			}
			a, errA := WithPlate(New(), cfg)
			b, errB := WithPlate(New(), cfg)
			if errA != nil || errB != nil {
				return false
			}
			return fmt.Sprint(pluginKeys(a.PluginList)) == fmt.Sprint(pluginKeys(b.PluginList))
		},
		genPluginTree(),
		gen.IntRange(0, 7),
	))

	// Property: core plugins lead in fixed order
	properties.Property("core plugins come first", prop.ForAll(
		func(plugins []*Plugin) bool {
			e, err := WithPlate(New(), Config{ID: "prop", Plugins: plugins})
			if err != nil {
				return false
			}
			core := CoreKeys()
			for i, k := range core {
				if e.PluginList[i].Key != k {
					return false
				}
			}
			return true
		},
		genPluginTree(),
	))

	// Property: no descendant of a disabled plugin survives
	properties.Property("disabled subtrees are removed", prop.ForAll(
		func(plugins []*Plugin, disabled int) bool {
			key := fmt.Sprintf("p%d", disabled)
			e, err := WithPlate(New(), Config{
				ID:       "prop",
				Plugins:  plugins,
				Override: Override{Enabled: map[string]bool{key: false}},
			})
			if err != nil {
				return false
			}
			for _, p := range e.PluginList {
				if p.Key == key {
					return false
				}
				for _, parent := range p.ParentKeys {
					if parent == key {
						return false
					}
				}
			}
			return true
		},
		genPluginTree(),
		gen.IntRange(0, 7),
	))

	// Property: merge never lowers priority
	properties.Property("merged priority is the maximum", prop.ForAll(
		func(a, b int) bool {
			got := Merge(&Plugin{Key: "k", Priority: a}, &Plugin{Priority: b})
			want := a
			if b > a {
				want = b
			}
			return got.Priority == want
		},
		gen.IntRange(-100, 100),
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t)
}
