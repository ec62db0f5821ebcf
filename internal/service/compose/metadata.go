// internal/service/compose/metadata.go

package compose

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinel delimiter lines wrapping the metadata block. Downstream
// consumers locate and strip the block by searching for these exact
// lines, so they are part of the artifact contract.
const (
	MetadataHeader = "--- METADATA ---"
	MetadataFooter = "----------------"
)

// topCommentLimit bounds artifact size against pathological comment text.
const topCommentLimit = 300

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Metadata holds the fields embedded at the top of every artifact.
type Metadata struct {
	KeywordType     string
	Keyword         string
	URL             string
	Filename        string
	VideoDownloaded bool
	OCRExtracted    bool
	LikeCount       int
	CommentCount    int
	ShareCount      int
	EngagementScore int
	EngagementTag   string
	TopComment      string
	Sentiment       string
	ExternalLinks   []string
	Category        string
	ScrapedAt       string
	Author          string
}

// ComposeMetadata formats the canonical key/value metadata block. Key
// order is fixed, booleans are literal true/false, arrays are joined
// with ", ", and numeric fields default to 0.
func ComposeMetadata(m Metadata) string {
	topComment := whitespaceRuns.ReplaceAllString(m.TopComment, " ")
	if len(topComment) > topCommentLimit {
		topComment = topComment[:topCommentLimit]
	}

	lines := []struct {
		key   string
		value string
	}{
		{"keywordType", m.KeywordType},
		{"keyword", m.Keyword},
		{"url", m.URL},
		{"filename", m.Filename},
		{"videoDownloaded", strconv.FormatBool(m.VideoDownloaded)},
		{"ocrExtracted", strconv.FormatBool(m.OCRExtracted)},
		{"likeCount", strconv.Itoa(m.LikeCount)},
		{"commentCount", strconv.Itoa(m.CommentCount)},
		{"shareCount", strconv.Itoa(m.ShareCount)},
		{"engagementScore", strconv.Itoa(m.EngagementScore)},
		{"engagementTag", m.EngagementTag},
		{"topComment", topComment},
		{"sentiment", m.Sentiment},
		{"externalLinks", strings.Join(m.ExternalLinks, ", ")},
		{"category", m.Category},
		{"scrapedAt", m.ScrapedAt},
		{"author", m.Author},
	}

	var b strings.Builder
	b.WriteString(MetadataHeader)
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(line.key)
		b.WriteString(": ")
		b.WriteString(line.value)
		b.WriteString("\n")
	}
	b.WriteString(MetadataFooter)
	b.WriteString("\n")
	return b.String()
}

// ExtractMetadataBlock returns the sentinel-delimited metadata block
// from an artifact, including the delimiters, and whether one was found.
func ExtractMetadataBlock(text string) (string, bool) {
	start := strings.Index(text, MetadataHeader)
	if start < 0 {
		return "", false
	}
	end := strings.Index(text[start+len(MetadataHeader):], MetadataFooter)
	if end < 0 {
		return "", false
	}
	end += start + len(MetadataHeader) + len(MetadataFooter)
	return text[start:end], true
}

// StripMetadata removes the metadata block from an artifact, leaving the
// body and any trailing sections. Used by the re-classification path.
func StripMetadata(text string) string {
	block, ok := ExtractMetadataBlock(text)
	if !ok {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(strings.Replace(text, block, "", 1))
}
