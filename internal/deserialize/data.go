package deserialize

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/conneroisu/plate/internal/errors"
)

// MIME types understood by InsertData.
const (
	MIMEFragment = "application/x-slate-fragment"
	MIMEHTML     = "text/html"
	MIMEText     = "text/plain"
)

// AST decodes a serialized document fragment: base64 of the URI-escaped
// JSON encoding of a node list.
func AST(e *editor.Editor, data string) ([]*document.Node, error) {
	if !editor.IsPluginEnabled(e, editor.KeyDeserializeAST) {
		return nil, disabled(editor.KeyDeserializeAST)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, astError(err, "fragment is not valid base64")
	}
	decoded, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil, astError(err, "fragment is not URI encoded")
	}

	var nodes []*document.Node
	if err := json.Unmarshal([]byte(decoded), &nodes); err != nil {
		return nil, astError(err, "fragment is not a node list")
	}
	return nodes, nil
}

// EncodeAST is the inverse of AST.
func EncodeAST(nodes []*document.Node) (string, error) {
	raw, err := json.Marshal(nodes)
	if err != nil {
		return "", err
	}
	escaped := strings.ReplaceAll(url.QueryEscape(string(raw)), "+", "%20")
	return base64.StdEncoding.EncodeToString([]byte(escaped)), nil
}

// Text splits plain text into one paragraph per line.
func Text(text string) []*document.Node {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	nodes := make([]*document.Node, 0, len(lines))
	for _, line := range lines {
		nodes = append(nodes, document.NewElement(document.DefaultParagraphType, document.NewText(line)))
	}
	return nodes
}

// Parse deserializes data of the given MIME type without inserting it.
func Parse(e *editor.Editor, mime, data string) ([]*document.Node, error) {
	switch mime {
	case MIMEFragment:
		return AST(e, data)
	case MIMEHTML:
		return HTML(e, data)
	case MIMEText:
		return Text(data), nil
	default:
		return nil, errors.NewValidationError(errors.CodeUnsupportedFormat,
			fmt.Sprintf("unsupported data type %q", mime))
	}
}

// InsertData deserializes data and inserts the result after the top-level
// block holding the selection, or at the end of the document when there is
// no selection. It returns the inserted nodes.
func InsertData(e *editor.Editor, mime, data string) ([]*document.Node, error) {
	if !editor.IsPluginEnabled(e, editor.KeyInsertData) {
		return nil, disabled(editor.KeyInsertData)
	}

	nodes, err := Parse(e, mime, data)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	at := document.Path{len(e.Children)}
	if e.Selection != nil && len(e.Selection.Focus.Path) > 0 {
		at = document.Path{e.Selection.Focus.Path[0] + 1}
	}

	e.History.BeginGroup()
	defer e.History.EndGroup()
	if err := e.InsertFragment(at, nodes...); err != nil {
		return nil, err
	}

	e.Log().WithComponent("deserializer").Debug(context.Background(), "Data inserted",
		"mime", mime,
		"nodes", len(nodes),
		"at", at.String(),
	)
	e.NotifyChange()
	return nodes, nil
}

func astError(err error, msg string) error {
	return errors.WrapValidation(err, errors.CodeDeserializationFailed, msg).
		WithPlugin(editor.KeyDeserializeAST)
}
