// Package richtext builds and renders Contentful rich text documents.
package richtext

// Node types used by this pipeline. The CMS schema defines more (lists,
// quotes, embeds); the builder only ever emits these three block kinds.
const (
	NodeDocument  = "document"
	NodeParagraph = "paragraph"
	NodeHeading3  = "heading-3"
	NodeText      = "text"
)

// nodeData marshals to the empty object the CMS requires on every node.
type nodeData struct{}

// Document is the root rich text node.
type Document struct {
	NodeType string   `json:"nodeType"`
	Data     nodeData `json:"data"`
	Content  []Block  `json:"content"`
}

// Block is a top-level block node (paragraph or heading).
type Block struct {
	NodeType string   `json:"nodeType"`
	Data     nodeData `json:"data"`
	Content  []Text   `json:"content"`
}

// Text is an inline text run. Newlines inside a paragraph are explicit "\n"
// runs, not embedded in neighbouring values.
type Text struct {
	NodeType string   `json:"nodeType"`
	Value    string   `json:"value"`
	Marks    []Mark   `json:"marks"`
	Data     nodeData `json:"data"`
}

// Mark is an inline formatting mark. The builder applies none; the type
// exists so text runs serialize with the mandatory empty marks array.
type Mark struct {
	Type string `json:"type"`
}

// Heading3 returns a heading-3 block with a single text run.
func Heading3(value string) Block {
	return Block{NodeType: NodeHeading3, Content: []Text{textRun(value)}}
}

// Paragraph returns a paragraph block. Embedded newlines become separate
// "\n" text runs so the renderer can distinguish soft breaks from new
// blocks.
func Paragraph(text string) Block {
	parts := splitLines(text)
	runs := make([]Text, 0, 2*len(parts)-1)
	for i, part := range parts {
		runs = append(runs, textRun(part))
		if i < len(parts)-1 {
			runs = append(runs, textRun("\n"))
		}
	}
	return Block{NodeType: NodeParagraph, Content: runs}
}

func textRun(value string) Text {
	return Text{NodeType: NodeText, Value: value, Marks: []Mark{}}
}
