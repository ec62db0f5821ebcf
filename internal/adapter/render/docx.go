// internal/adapter/render/docx.go

package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/gingfrederik/docx"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

const linkColor = "0000FF"

// DocxRenderer writes the formatted document artifact for a post as a
// Word file: title, source details, metadata block, body paragraphs, OCR
// section and external links.
type DocxRenderer struct{}

// NewDocxRenderer creates a renderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// Render writes the document to outputPath.
func (r *DocxRenderer) Render(ctx context.Context, doc post.Document, outputPath string) error {
	f := docx.NewFile()

	title := doc.Title
	if title == "" {
		title = "Post Extract"
	}
	f.AddParagraph().AddText(title).Size(18)

	f.AddParagraph().AddText("Source: " + doc.URL).Size(10)
	if doc.Keyword != "" {
		f.AddParagraph().AddText("Keyword: " + doc.Keyword).Size(10)
	}
	if doc.Category != "" {
		f.AddParagraph().AddText("Category: " + doc.Category).Size(10)
	}
	if doc.ScrapedAt != "" {
		f.AddParagraph().AddText("Scraped: " + doc.ScrapedAt).Size(10)
	}
	f.AddParagraph().AddText("")

	if doc.MetadataBlock != "" {
		for _, line := range strings.Split(strings.TrimRight(doc.MetadataBlock, "\n"), "\n") {
			f.AddParagraph().AddText(line).Size(9)
		}
		f.AddParagraph().AddText("")
	}

	for _, para := range strings.Split(doc.Body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		f.AddParagraph().AddText(para).Size(11)
	}

	if strings.TrimSpace(doc.OCRText) != "" {
		f.AddParagraph().AddText("")
		f.AddParagraph().AddText("Extracted Image Text").Size(14)
		for _, line := range strings.Split(doc.OCRText, "\n") {
			f.AddParagraph().AddText(line).Size(10)
		}
	}

	if len(doc.ExternalLinks) > 0 {
		f.AddParagraph().AddText("")
		f.AddParagraph().AddText("External Links").Size(14)
		for _, link := range doc.ExternalLinks {
			f.AddParagraph().AddText(link).Size(10).Color(linkColor)
		}
	}

	if err := f.Save(outputPath); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}
