// internal/service/compose/assembler.go

package compose

import (
	"fmt"
	"strings"
)

// OCRHeader precedes extracted image text in the assembled artifact.
const OCRHeader = "--- OCR EXTRACTED TEXT ---"

// ExcerptLimit caps each external-link excerpt.
const ExcerptLimit = 3000

const excerptFooter = "--------------------------"

// Excerpt is the fetched text of one external link found in a post body.
type Excerpt struct {
	URL  string
	Text string
}

// FormatExcerpt wraps an external-link excerpt with a header naming its
// source URL, capping the text at ExcerptLimit.
func FormatExcerpt(e Excerpt) string {
	text := e.Text
	if len(text) > ExcerptLimit {
		text = text[:ExcerptLimit]
	}
	return fmt.Sprintf("\n\n--- EXTERNAL LINK: %s ---\n%s\n%s", e.URL, text, excerptFooter)
}

// Assemble concatenates the artifact sections in fixed order: metadata
// block, body text, slide-deck note, OCR section (only when OCR text is
// non-empty), then each external-link excerpt in discovery order. The
// ordering is a contract: downstream metadata-stripping depends on the
// block being first and delimited. Identical inputs always produce
// byte-identical output.
func Assemble(metadataBlock, body, slideNote, ocrText string, excerpts []Excerpt) string {
	ocrSection := ""
	if strings.TrimSpace(ocrText) != "" {
		ocrSection = fmt.Sprintf("\n\n%s\n%s", OCRHeader, ocrText)
	}

	parts := []string{metadataBlock, body, slideNote, ocrSection}
	for _, e := range excerpts {
		parts = append(parts, FormatExcerpt(e))
	}
	return strings.Join(parts, "\n")
}
