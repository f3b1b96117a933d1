// Package extractor converts uploaded PDF binaries into plain text.
package extractor

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns a document binary into plain text.
type Extractor interface {
	Extract(content []byte) (string, error)
}

// Compile-time interface check.
var _ Extractor = (*PDFExtractor)(nil)

// PDFExtractor extracts row-ordered text from PDF bytes. Line breaks follow
// the PDF's internal text layout; no structure (columns, tables) is
// recovered.
type PDFExtractor struct {
	logger *log.Logger
}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{logger: log.Default()} }

// Extract returns the plain text of every page, one line per text row.
// Invalid PDF input fails; a page whose content cannot be decoded is logged
// and skipped, and a document where every page fails is an error rather
// than silent empty text.
func (e *PDFExtractor) Extract(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	failed := 0
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			failed++
			e.logger.Printf("pdf page %d: text extraction failed: %v", i, err)
			continue
		}
		sb.WriteString(text)
	}

	out := strings.TrimSpace(sb.String())
	if out == "" && failed > 0 {
		return "", fmt.Errorf("no text extracted: %d page(s) failed", failed)
	}
	return out, nil
}

// pageText reads one page's rows. GetTextByRow panics on some malformed
// content streams, so the panic is converted into the error return.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, row := range rows {
		for _, word := range row.Content {
			sb.WriteString(word.S)
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
