package richtext

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// node is the loose shape used when reading documents back from the CMS,
// which may contain kinds the builder never emits (lists, quotes, links from
// migrated entries).
type node struct {
	NodeType string `json:"nodeType"`
	Value    string `json:"value"`
	Data     struct {
		URI string `json:"uri"`
	} `json:"data"`
	Content []node `json:"content"`
}

// HTML renders a rich text document (raw CMS JSON) to HTML. Newlines inside
// text runs become <br /> so soft breaks survive rendering.
func HTML(raw []byte) (string, error) {
	var root node
	if err := json.Unmarshal(raw, &root); err != nil {
		return "", fmt.Errorf("decode rich text: %w", err)
	}
	var sb strings.Builder
	renderNode(&sb, root)
	return sb.String(), nil
}

// PlainText returns the concatenated text content of a document, one line
// per block. Used by the read path for substring search.
func PlainText(raw []byte) (string, error) {
	var root node
	if err := json.Unmarshal(raw, &root); err != nil {
		return "", fmt.Errorf("decode rich text: %w", err)
	}
	var parts []string
	collectText(root, &parts)
	return strings.Join(parts, "\n"), nil
}

func renderNode(sb *strings.Builder, n node) {
	switch n.NodeType {
	case NodeDocument:
		renderChildren(sb, n)
	case NodeParagraph:
		wrap(sb, "p", n)
	case "heading-1", "heading-2", "heading-3", "heading-4", "heading-5", "heading-6":
		tag := "h" + n.NodeType[len("heading-"):]
		wrap(sb, tag, n)
	case "unordered-list":
		wrap(sb, "ul", n)
	case "ordered-list":
		wrap(sb, "ol", n)
	case "list-item":
		wrap(sb, "li", n)
	case "blockquote":
		wrap(sb, "blockquote", n)
	case "hr":
		sb.WriteString("<hr/>")
	case "hyperlink":
		fmt.Fprintf(sb, `<a href="%s">`, html.EscapeString(n.Data.URI))
		renderChildren(sb, n)
		sb.WriteString("</a>")
	case NodeText:
		escaped := html.EscapeString(n.Value)
		sb.WriteString(strings.ReplaceAll(escaped, "\n", "<br />"))
	default:
		renderChildren(sb, n)
	}
}

func wrap(sb *strings.Builder, tag string, n node) {
	sb.WriteString("<" + tag + ">")
	renderChildren(sb, n)
	sb.WriteString("</" + tag + ">")
}

func renderChildren(sb *strings.Builder, n node) {
	for _, c := range n.Content {
		renderNode(sb, c)
	}
}

func collectText(n node, parts *[]string) {
	if n.NodeType == NodeText {
		if n.Value != "" && n.Value != "\n" {
			*parts = append(*parts, n.Value)
		}
		return
	}
	for _, c := range n.Content {
		collectText(c, parts)
	}
}
