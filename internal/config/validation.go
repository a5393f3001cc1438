package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/conneroisu/plate/internal/editor"
	plateerrors "github.com/conneroisu/plate/internal/errors"
	"github.com/conneroisu/plate/internal/normalizers"
	"github.com/conneroisu/plate/internal/presets"
)

// ValidationError represents a manifest validation issue with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of manifest validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("❌ Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("⚠️  Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

// Err converts the errors into one structured validation error, or nil.
func (vr *ValidationResult) Err() error {
	collector := plateerrors.NewErrorCollector()
	for i := range vr.Errors {
		ve := vr.Errors[i]
		collector.Add(plateerrors.NewValidationError(plateerrors.CodeInvalidManifest, ve.Message).
			WithContext("field", ve.Field))
	}
	return collector.Err()
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:       field,
		Value:       value,
		Message:     message,
		Suggestions: suggestions,
	})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{
		Field:       field,
		Value:       value,
		Message:     message,
		Suggestions: suggestions,
	})
}

var keyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_\-]*$`)

// Validate checks m for structural problems. Component names are checked
// by Build, which has the registry.
func (m *Manifest) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(m.ID) == "" {
		result.addError("id", m.ID, "editor id is required", "Add a top-level `id: my-editor`")
	}

	for i, name := range m.Presets {
		if _, ok := presets.Lookup(name); !ok {
			result.addError(fmt.Sprintf("presets[%d]", i), name,
				fmt.Sprintf("unknown preset %q", name),
				"Available presets: "+strings.Join(presets.Names(), ", "))
		}
	}

	validatePluginSpecs("plugins", m.Plugins, result)

	for _, key := range sortedKeys(m.Override.Plugins) {
		spec := m.Override.Plugins[key]
		field := "override.plugins." + key
		if spec.Key != "" && spec.Key != key {
			result.addError(field+".key", spec.Key, "override patches cannot rename a plugin")
		}
		if spec.Preset != "" {
			result.addError(field+".preset", spec.Preset, "override patches cannot use a preset")
		}
		validateHTMLRules(field+".html", spec.HTML, result)
		validatePluginSpecs(field+".plugins", spec.Plugins, result)
	}

	if enabled, set := m.Override.Enabled[editor.KeyHistory]; set && !enabled {
		result.addError("override.enabled.history", false,
			"disabling history leaves a new editor without a history handle")
	}

	for _, key := range sortedKeys(m.Configure) {
		if !keyPattern.MatchString(key) {
			result.addError("configure."+key, key, "invalid plugin key")
		}
	}

	if _, err := editor.ParseAutoSelect(m.Editor.AutoSelect); err != nil {
		result.addError("editor.autoSelect", m.Editor.AutoSelect,
			"autoSelect must be start, end or false")
	}

	return result
}

func validatePluginSpecs(field string, specs []PluginSpec, result *ValidationResult) {
	seen := make(map[string]int, len(specs))
	for i, spec := range specs {
		f := fmt.Sprintf("%s[%d]", field, i)

		key := spec.Key
		if spec.Preset != "" {
			base, err := presetPlugin(spec.Preset)
			if err != nil {
				result.addError(f+".preset", spec.Preset, err.Error(),
					"Available presets: "+strings.Join(singlePresetNames(), ", "))
			} else if key == "" {
				key = base.Key
			}
		}

		switch {
		case key == "":
			result.addError(f+".key", spec.Key, "plugin key is required")
		case !keyPattern.MatchString(key):
			result.addError(f+".key", key, "plugin key must start with a letter and contain only letters, digits, '_' or '-'")
		default:
			if prev, dup := seen[key]; dup {
				result.addError(f+".key", key,
					fmt.Sprintf("duplicate key %q (also at %s[%d])", key, field, prev),
					"Merge the two entries, or nest one under another plugin")
			} else {
				seen[key] = i
			}
			if isCoreKey(key) {
				result.addWarning(f+".key", key,
					fmt.Sprintf("%q is a core plugin; this entry extends it", key))
			}
		}

		if spec.Type != "" && !keyPattern.MatchString(spec.Type) {
			result.addError(f+".type", spec.Type, "invalid node type")
		}

		validateHTMLRules(f+".html", spec.HTML, result)
		validatePluginSpecs(f+".plugins", spec.Plugins, result)
	}
}

func validateHTMLRules(field string, rules []HTMLRuleSpec, result *ValidationResult) {
	for i, rule := range rules {
		if len(rule.NodeNames) == 0 && len(rule.Attributes) == 0 {
			result.addError(fmt.Sprintf("%s[%d]", field, i), rule,
				"an HTML rule needs nodeNames or attributes")
		}
	}
}

func isCoreKey(key string) bool {
	for _, k := range editor.CoreKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// presetPlugin resolves a single-plugin preset, including the normalizer
// plugins.
func presetPlugin(name string) (*editor.Plugin, error) {
	if name == normalizers.KeyNormalizeTypes {
		return normalizers.NormalizeTypesPlugin(), nil
	}
	plugins, ok := presets.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	if len(plugins) != 1 {
		return nil, fmt.Errorf("preset %q provides %d plugins; list it under presets instead", name, len(plugins))
	}
	return plugins[0], nil
}

func singlePresetNames() []string {
	names := []string{normalizers.KeyNormalizeTypes}
	for _, name := range presets.Names() {
		if plugins, _ := presets.Lookup(name); len(plugins) == 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
