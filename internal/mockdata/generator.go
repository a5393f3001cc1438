// Package mockdata generates sample documents for a composed editor. The
// sample is written as HTML, one snippet per plugin HTML rule, and read back
// through the editor's own deserializer, so every node it produces is one
// the editor knows how to handle.
package mockdata

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/conneroisu/plate/internal/deserialize"
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
	"golang.org/x/net/html"
)

// DefaultSeed is the seed used when none is given.
const DefaultSeed int64 = 1

// Generator generates sample content. Output is deterministic for a seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// tagAttributes are the attributes written for an HTML tag in addition to
// the ones a rule requires.
var tagAttributes = map[string][]string{
	"a":      {"href"},
	"img":    {"src", "alt"},
	"pre":    {"class"},
	"iframe": {"src"},
	"video":  {"src"},
}

// containerChildren names the child tag written inside a container tag.
var containerChildren = map[string]string{
	"ul":    "li",
	"ol":    "li",
	"table": "tr",
	"tr":    "td",
	"dl":    "dt",
}

// voidTags have no closing tag in HTML.
var voidTags = map[string]bool{
	"img":   true,
	"hr":    true,
	"br":    true,
	"input": true,
	"embed": true,
}

// Document generates a sample document for e: one block per element rule,
// inline elements inside a paragraph, and a final paragraph with every mark.
func (g *Generator) Document(e *editor.Editor) ([]*document.Node, error) {
	nodes, err := deserialize.HTML(e, g.HTML(e))
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return []*document.Node{document.EmptyParagraph()}, nil
	}
	return nodes, nil
}

// HTML generates the sample as an HTML fragment.
func (g *Generator) HTML(e *editor.Editor) string {
	var (
		b     strings.Builder
		marks []string
	)
	for _, p := range e.PluginList {
		if !p.IsEnabled() {
			continue
		}
		for _, rule := range p.Handlers.DeserializeHTML {
			tag, ok := ruleTag(rule)
			if !ok {
				continue
			}
			if rule.IsLeaf {
				marks = append(marks, g.open(tag, rule)+html.EscapeString(p.Key)+"</"+tag+">")
				break
			}
			g.writeElement(&b, p, tag, rule)
			break
		}
	}
	if len(marks) > 0 {
		b.WriteString("<p>Text with " + strings.Join(marks, ", ") + ".</p>")
	}
	return b.String()
}

// ruleTag returns the lower-case tag a rule matches, skipping wildcard rules.
func ruleTag(rule editor.HTMLRule) (string, bool) {
	for _, name := range rule.NodeNames {
		if name != "" && name != "*" {
			return strings.ToLower(name), true
		}
	}
	return "", false
}

func (g *Generator) writeElement(b *strings.Builder, p *editor.Plugin, tag string, rule editor.HTMLRule) {
	switch {
	case p.Options.Bool("isInline"):
		b.WriteString("<p>See " + g.open(tag, rule) + html.EscapeString(g.title()) + "</" + tag + "> for more.</p>")
	case voidTags[tag]:
		b.WriteString(g.open(tag, rule))
	case p.Options.Bool("isVoid"):
		b.WriteString(g.open(tag, rule) + "</" + tag + ">")
	default:
		b.WriteString(g.open(tag, rule))
		g.writeContent(b, p.Key, tag, 0)
		b.WriteString("</" + tag + ">")
	}
}

func (g *Generator) writeContent(b *strings.Builder, key, tag string, depth int) {
	child, ok := containerChildren[tag]
	if !ok || depth > 2 {
		b.WriteString(html.EscapeString(g.text(key, tag)))
		return
	}
	for range 2 {
		b.WriteString("<" + child + ">")
		g.writeContent(b, key, child, depth+1)
		b.WriteString("</" + child + ">")
	}
}

// open writes the opening tag with the rule's required attributes and the
// tag's usual ones.
func (g *Generator) open(tag string, rule editor.HTMLRule) string {
	attrs := make(map[string]string)
	for _, name := range tagAttributes[tag] {
		attrs[name] = g.attribute(name, tag)
	}
	required := make([]string, 0, len(rule.Attributes))
	for name := range rule.Attributes {
		required = append(required, name)
	}
	sort.Strings(required)
	for _, name := range required {
		value := rule.Attributes[name]
		if value == "" || value == "*" {
			value = g.attribute(name, tag)
		}
		attrs[name] = value
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<" + tag)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=\"%s\"", name, html.EscapeString(attrs[name]))
	}
	b.WriteString(">")
	return b.String()
}

// attribute generates a value for an attribute from its name.
func (g *Generator) attribute(name, tag string) string {
	nameLower := strings.ToLower(name)

	if containsAny(nameLower, []string{"href", "src", "url", "link"}) {
		return g.url(tag)
	}

	if containsAny(nameLower, []string{"alt", "title", "label"}) {
		return g.title()
	}

	if nameLower == "class" && tag == "pre" {
		return "language-" + pick(g.rng, []string{"go", "yaml", "html", "sql"})
	}

	if containsAny(nameLower, []string{"id", "key"}) {
		return g.id()
	}

	if containsAny(nameLower, []string{"color", "colour", "background", "tone"}) {
		return g.color()
	}

	if nameLower == "target" {
		return "_blank"
	}

	return "sample"
}

// text generates the text of an element from its key and tag.
func (g *Generator) text(key, tag string) string {
	context := strings.ToLower(key + " " + tag)

	if containsAny(context, []string{"title", "heading", "header", "h1", "h2", "h3", "h4", "h5", "h6"}) {
		return g.title()
	}

	if containsAny(context, []string{"code", "pre"}) {
		return pick(g.rng, []string{
			`fmt.Println("hello")`,
			"SELECT id FROM plugins;",
			"key: value",
			"<div></div>",
		})
	}

	if containsAny(context, []string{"quote"}) {
		return pick(g.rng, []string{
			"Simplicity is prerequisite for reliability.",
			"Make it work, make it right, make it fast.",
			"Clear is better than clever.",
		})
	}

	if containsAny(context, []string{"li", "td", "dt", "item", "cell"}) {
		return pick(g.rng, []string{"First item", "Second item", "Another entry", "One more"})
	}

	return pick(g.rng, []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris.",
		"Duis aute irure dolor in reprehenderit in voluptate velit esse.",
		"Excepteur sint occaecat cupidatat non proident, sunt in culpa.",
	})
}

func (g *Generator) url(tag string) string {
	if tag == "img" {
		sizes := []string{"150x150", "200x200", "300x300", "400x400"}
		return fmt.Sprintf("https://via.placeholder.com/%s", pick(g.rng, sizes))
	}

	domains := []string{"example.com", "demo.org", "test.net", "sample.io"}
	paths := []string{"page", "article", "post", "item", "resource"}

	return fmt.Sprintf("https://%s/%s/%d", pick(g.rng, domains), pick(g.rng, paths), g.rng.Intn(1000)+1)
}

func (g *Generator) title() string {
	adjectives := []string{"Amazing", "Incredible", "Fantastic", "Outstanding", "Remarkable", "Excellent"}
	nouns := []string{"Editor", "Plugin", "Document", "Experience", "Preset", "Paragraph"}

	return fmt.Sprintf("%s %s", pick(g.rng, adjectives), pick(g.rng, nouns))
}

func (g *Generator) id() string {
	formats := []string{
		fmt.Sprintf("id_%d", g.rng.Intn(10000)),
		fmt.Sprintf("%08x", g.rng.Uint32()),
		fmt.Sprintf("item-%d", g.rng.Intn(1000)),
	}

	return pick(g.rng, formats)
}

func (g *Generator) color() string {
	return pick(g.rng, []string{
		"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
		"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	})
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

// containsAny reports whether str contains any of substrings.
func containsAny(str string, substrings []string) bool {
	for _, substring := range substrings {
		if strings.Contains(str, substring) {
			return true
		}
	}
	return false
}
