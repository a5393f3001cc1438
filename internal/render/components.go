package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/a-h/templ"
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/registry"
	"github.com/conneroisu/plate/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Built-in component names.
const (
	ComponentCallout   = "Callout"
	ComponentHeading   = "Heading"
	ComponentFigure    = "Figure"
	ComponentHighlight = "Highlight"
)

// RegisterDefaults registers the built-in components on reg.
func RegisterDefaults(reg *registry.ComponentRegistry) {
	reg.RegisterInfo(&registry.ComponentInfo{
		Name:        ComponentCallout,
		Description: "aside with a tone from the node's or plugin's \"tone\"",
		Component:   Callout(),
	})
	reg.RegisterInfo(&registry.ComponentInfo{
		Name:        ComponentHeading,
		Description: "h1-h6 with an id anchor derived from the text",
		Component:   Heading(),
	})
	reg.RegisterInfo(&registry.ComponentInfo{
		Name:        ComponentFigure,
		Description: "image with its alt text as caption",
		Component:   Figure(),
	})
	reg.RegisterInfo(&registry.ComponentInfo{
		Name:        ComponentHighlight,
		Description: "mark component wrapping text in <mark>",
		Component:   Highlight(),
	})
}

// wrap renders the children between open and "</tag>".
func wrap(ctx context.Context, w io.Writer, open, tag string) error {
	if _, err := io.WriteString(w, open); err != nil {
		return err
	}
	if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</"+tag+">")
	return err
}

// Callout renders an aside.
func Callout() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tone := "info"
		if el, ok := ElementFromContext(ctx); ok {
			if v, ok := el.Node.Prop("tone"); ok {
				tone = fmt.Sprint(v)
			} else if s := el.Plugin.Options.String("tone"); s != "" {
				tone = s
			}
		}
		return wrap(ctx, w, openTag("aside", [][2]string{{"class", "callout callout-" + tone}}), "aside")
	})
}

// Heading renders h1 to h6 with an anchor id.
func Heading() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tag := "h2"
		var attrs [][2]string
		if el, ok := ElementFromContext(ctx); ok {
			if len(el.Node.Type) == 2 && el.Node.Type[0] == 'h' && el.Node.Type[1] >= '1' && el.Node.Type[1] <= '6' {
				tag = el.Node.Type
			}
			if id := Slug(nodeText(el)); id != "" {
				attrs = append(attrs, [2]string{"id", id})
			}
		}
		return wrap(ctx, w, openTag(tag, attrs), tag)
	})
}

// Figure renders an image with a caption.
func Figure() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		el, ok := ElementFromContext(ctx)
		if !ok {
			return nil
		}
		url, _ := el.Node.Prop("url")
		alt, _ := el.Node.Prop("alt")
		caption := ""
		if alt != nil {
			caption = fmt.Sprint(alt)
		}

		var b strings.Builder
		b.WriteString("<figure>")
		b.WriteString(openTag("img", [][2]string{{"src", validation.SafeURL(fmt.Sprint(url))}, {"alt", caption}}))
		if caption != "" {
			b.WriteString("<figcaption>" + templ.EscapeString(caption) + "</figcaption>")
		}
		b.WriteString("</figure>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Highlight renders a mark.
func Highlight() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return wrap(ctx, w, "<mark>", "mark")
	})
}

func nodeText(el Element) string {
	var b strings.Builder
	stack := el.Node.Children
	for len(stack) > 0 {
		n := stack[0]
		stack = stack[1:]
		if n.IsText() {
			b.WriteString(n.Text)
			continue
		}
		stack = append(append([]*document.Node(nil), n.Children...), stack...)
	}
	return b.String()
}

// Slug turns heading text into an id: lower case, runs of anything other
// than letters and digits collapsed to one '-'.
func Slug(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range cases.Lower(language.Und).String(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
