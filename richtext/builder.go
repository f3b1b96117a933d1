package richtext

import (
	"regexp"
	"strings"
)

// placeholderBody satisfies the CMS constraint that a body may never be
// empty.
const placeholderBody = "（本文なし）"

var (
	blockSplitRe   = regexp.MustCompile(`\n{2,}`)
	headingGlyphRe = regexp.MustCompile(`^[〇○●◉◆◇▶▷►]\s*`)
)

const circledNumbers = "①②③④⑤⑥⑦⑧⑨"

// Build converts operator-edited body text into a rich text document.
//
// Blank-line runs separate blocks. A block whose first line starts with a
// bullet glyph becomes a heading-3 from that line; its remaining lines are
// re-split on circled-number bullets so each speaker entry renders as its
// own paragraph. Every other block becomes one paragraph with line breaks
// kept as explicit newline runs. Empty input still yields one placeholder
// paragraph.
func Build(bodyText string) Document {
	var blocks []Block

	for _, raw := range blockSplitRe.Split(bodyText, -1) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lines := nonBlankLines(trimmed)

		switch {
		case headingGlyphRe.MatchString(lines[0]):
			blocks = append(blocks, Heading3(headingGlyphRe.ReplaceAllString(lines[0], "")))
			blocks = append(blocks, speakerParagraphs(lines[1:])...)
		case len(lines) == 1:
			blocks = append(blocks, Paragraph(trimmed))
		default:
			blocks = append(blocks, Paragraph(strings.Join(lines, "\n")))
		}
	}

	if len(blocks) == 0 {
		blocks = append(blocks, Paragraph(placeholderBody))
	}
	return Document{NodeType: NodeDocument, Content: blocks}
}

// speakerParagraphs groups lines into paragraphs, starting a new one at each
// circled-number bullet so speaker lists stay readable when rendered.
func speakerParagraphs(lines []string) []Block {
	var blocks []Block
	var buf []string
	for _, line := range lines {
		if startsWithCircledNumber(line) && len(buf) > 0 {
			blocks = append(blocks, Paragraph(strings.Join(buf, "\n")))
			buf = nil
		}
		buf = append(buf, line)
	}
	if len(buf) > 0 {
		blocks = append(blocks, Paragraph(strings.Join(buf, "\n")))
	}
	return blocks
}

func startsWithCircledNumber(s string) bool {
	for _, r := range s {
		return strings.ContainsRune(circledNumbers, r)
	}
	return false
}

func nonBlankLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
