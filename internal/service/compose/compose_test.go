package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetadata() Metadata {
	return Metadata{
		KeywordType:     "keyword",
		Keyword:         "genai hiring",
		URL:             "https://x.test/posts/abc",
		Filename:        "abc_1a2b.txt",
		VideoDownloaded: false,
		OCRExtracted:    true,
		LikeCount:       12,
		CommentCount:    4,
		ShareCount:      2,
		EngagementScore: 40,
		EngagementTag:   "",
		TopComment:      "Great post!",
		Sentiment:       "Positive",
		ExternalLinks:   []string{"https://a.test", "https://b.test"},
		Category:        "Hiring",
		ScrapedAt:       "2026-08-29T10:00:00Z",
		Author:          "Jane Doe",
	}
}

func TestComposeMetadataLayout(t *testing.T) {
	block := ComposeMetadata(sampleMetadata())

	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, MetadataHeader, lines[0])
	assert.Equal(t, MetadataFooter, lines[len(lines)-1])

	// Fixed key order.
	wantKeys := []string{
		"keywordType", "keyword", "url", "filename", "videoDownloaded",
		"ocrExtracted", "likeCount", "commentCount", "shareCount",
		"engagementScore", "engagementTag", "topComment", "sentiment",
		"externalLinks", "category", "scrapedAt", "author",
	}
	body := lines[1 : len(lines)-1]
	require.Len(t, body, len(wantKeys))
	for i, line := range body {
		assert.True(t, strings.HasPrefix(line, wantKeys[i]+": "),
			"line %d = %q, want key %q", i, line, wantKeys[i])
	}

	assert.Contains(t, block, "videoDownloaded: false\n")
	assert.Contains(t, block, "ocrExtracted: true\n")
	assert.Contains(t, block, "externalLinks: https://a.test, https://b.test\n")
}

func TestComposeMetadataTopComment(t *testing.T) {
	m := sampleMetadata()
	m.TopComment = "line one\n\tline  two   end"
	block := ComposeMetadata(m)
	assert.Contains(t, block, "topComment: line one line two end\n")

	m.TopComment = strings.Repeat("x", 500)
	block = ComposeMetadata(m)
	assert.Contains(t, block, "topComment: "+strings.Repeat("x", 300)+"\n")
}

func TestExtractAndStripMetadata(t *testing.T) {
	block := ComposeMetadata(sampleMetadata())
	full := Assemble(block, "the body text of the post", "", "", nil)

	got, ok := ExtractMetadataBlock(full)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(got, MetadataHeader))
	assert.True(t, strings.HasSuffix(got, MetadataFooter))

	stripped := StripMetadata(full)
	assert.NotContains(t, stripped, MetadataHeader)
	assert.Contains(t, stripped, "the body text of the post")
}

func TestStripMetadataWithoutBlock(t *testing.T) {
	assert.Equal(t, "plain text", StripMetadata("  plain text\n"))
}

func TestFormatExcerpt(t *testing.T) {
	got := FormatExcerpt(Excerpt{URL: "https://a.test/page", Text: "excerpt body"})

	assert.Contains(t, got, "--- EXTERNAL LINK: https://a.test/page ---")
	assert.Contains(t, got, "excerpt body")
	assert.True(t, strings.HasSuffix(got, "\n"+strings.Repeat("-", 26)))
}

func TestFormatExcerptCapsText(t *testing.T) {
	got := FormatExcerpt(Excerpt{URL: "https://a.test", Text: strings.Repeat("y", ExcerptLimit+100)})
	assert.NotContains(t, got, strings.Repeat("y", ExcerptLimit+1))
	assert.Contains(t, got, strings.Repeat("y", ExcerptLimit))
}

func TestAssembleOrdering(t *testing.T) {
	full := Assemble(
		"METABLOCK",
		"BODY",
		"SLIDENOTE",
		"OCRTEXT",
		[]Excerpt{{URL: "https://a.test", Text: "EXCERPT-A"}, {URL: "https://b.test", Text: "EXCERPT-B"}},
	)

	positions := []int{
		strings.Index(full, "METABLOCK"),
		strings.Index(full, "BODY"),
		strings.Index(full, "SLIDENOTE"),
		strings.Index(full, OCRHeader),
		strings.Index(full, "EXCERPT-A"),
		strings.Index(full, "EXCERPT-B"),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "section %d missing", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "section %d out of order", i)
		}
	}
}

func TestAssembleSkipsEmptyOCRSection(t *testing.T) {
	full := Assemble("META", "BODY", "", "   ", nil)
	assert.NotContains(t, full, OCRHeader)
}

func TestAssembleDeterministic(t *testing.T) {
	args := func() string {
		return Assemble("M", "B", "S", "O", []Excerpt{{URL: "u", Text: "t"}})
	}
	assert.Equal(t, args(), args())
}
