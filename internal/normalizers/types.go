// Package normalizers provides plugins that contribute normalization rules.
package normalizers

import (
	"fmt"

	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/spf13/cast"
)

// KeyNormalizeTypes is the key of the type-enforcing plugin.
const KeyNormalizeTypes = "normalizeTypes"

// TypeRule requires an element of Type at Path. A missing node is
// inserted; a node of another type is retyped only when Strict is set.
type TypeRule struct {
	Path   document.Path
	Type   string
	Strict bool
}

// NormalizeTypesPlugin enforces the rules given in its "rules" option. The
// option accepts []TypeRule or the generic form decoded from a manifest:
// a list of maps with "path", "type" and "strict".
func NormalizeTypesPlugin(rules ...TypeRule) *editor.Plugin {
	opts := editor.Options{}
	if len(rules) > 0 {
		opts["rules"] = rules
	}
	return &editor.Plugin{
		Key:     KeyNormalizeTypes,
		Options: opts,
		Handlers: editor.Handlers{
			Normalize: []editor.NormalizeFunc{normalizeTypes},
		},
	}
}

func normalizeTypes(e *editor.Editor, p *editor.Plugin, entry document.Entry) (bool, error) {
	if !entry.IsRoot() {
		return false, nil
	}
	rules, err := ParseTypeRules(p.Options["rules"])
	if err != nil {
		return false, err
	}

	for _, rule := range rules {
		n, ok := document.Get(e.Children, rule.Path)
		if !ok {
			if err := e.InsertNodes(rule.Path, document.NewElement(rule.Type, document.NewText(""))); err != nil {
				return false, err
			}
			return true, nil
		}
		if rule.Strict && n.IsElement() && n.Type != rule.Type {
			return true, e.SetNodeType(rule.Path, rule.Type)
		}
	}
	return false, nil
}

// ParseTypeRules decodes the "rules" option.
func ParseTypeRules(v interface{}) ([]TypeRule, error) {
	switch rules := v.(type) {
	case nil:
		return nil, nil
	case []TypeRule:
		return rules, nil
	}

	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("rules must be a list: %w", err)
	}
	out := make([]TypeRule, 0, len(items))
	for i, item := range items {
		if rule, ok := item.(TypeRule); ok {
			out = append(out, rule)
			continue
		}
		m, err := cast.ToStringMapE(item)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		path, err := cast.ToIntSliceE(m["path"])
		if err != nil || len(path) == 0 {
			return nil, fmt.Errorf("rule %d: path must be a non-empty list of indexes", i)
		}
		typ := cast.ToString(m["type"])
		if typ == "" {
			return nil, fmt.Errorf("rule %d: type is required", i)
		}
		out = append(out, TypeRule{Path: document.Path(path), Type: typ, Strict: cast.ToBool(m["strict"])})
	}
	return out, nil
}
