package richtext

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// FromMarkdown converts a Markdown source into a rich text document for the
// one-shot CLI publish path. Headings map to heading blocks, lists are
// flattened into bullet/numbered paragraphs, and inline formatting is
// dropped (the builder applies no marks either).
func FromMarkdown(src []byte) Document {
	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader(src))

	var blocks []Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, markdownBlocks(n, src)...)
	}
	if len(blocks) == 0 {
		blocks = append(blocks, Paragraph(placeholderBody))
	}
	return Document{NodeType: NodeDocument, Content: blocks}
}

func markdownBlocks(n ast.Node, src []byte) []Block {
	switch t := n.(type) {
	case *ast.Heading:
		level := t.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		return []Block{{
			NodeType: fmt.Sprintf("heading-%d", level),
			Content:  inlineRuns(t, src),
		}}
	case *ast.Paragraph, *ast.TextBlock:
		return []Block{{NodeType: NodeParagraph, Content: inlineRuns(n, src)}}
	case *ast.List:
		return listBlocks(t, src)
	case *ast.Blockquote:
		var blocks []Block
		for c := t.FirstChild(); c != nil; c = c.NextSibling() {
			blocks = append(blocks, markdownBlocks(c, src)...)
		}
		return blocks
	case *ast.FencedCodeBlock:
		return []Block{codeParagraph(t.Lines(), src)}
	case *ast.CodeBlock:
		return []Block{codeParagraph(t.Lines(), src)}
	default:
		return nil
	}
}

// listBlocks flattens a list into prefixed paragraphs, one item each.
func listBlocks(list *ast.List, src []byte) []Block {
	var blocks []Block
	index := list.Start
	if index == 0 {
		index = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		prefix := "• "
		if list.IsOrdered() {
			prefix = fmt.Sprintf("%d. ", index)
			index++
		}
		var parts []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if text := runsText(inlineRuns(c, src)); text != "" {
				parts = append(parts, text)
			}
		}
		blocks = append(blocks, Paragraph(prefix+strings.Join(parts, "\n")))
	}
	return blocks
}

func codeParagraph(lines *gtext.Segments, src []byte) Block {
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return Paragraph(strings.TrimRight(sb.String(), "\n"))
}

// inlineRuns collects the inline text of a block node as text runs, keeping
// line breaks as explicit "\n" runs.
func inlineRuns(n ast.Node, src []byte) []Text {
	var runs []Text
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			runs = append(runs, textRun(buf.String()))
			buf.Reset()
		}
	}

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				flush()
				runs = append(runs, textRun("\n"))
			}
			return
		case *ast.String:
			buf.Write(t.Value)
			return
		case *ast.AutoLink:
			buf.Write(t.URL(src))
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c)
	}
	flush()

	if len(runs) == 0 {
		runs = append(runs, textRun(""))
	}
	return runs
}

func runsText(runs []Text) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Value)
	}
	return sb.String()
}
