package post

import (
	"context"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/seed"
)

// CaptureSource supplies captured posts for a search term. It may return
// zero or more posts and may fail per-post without aborting the term.
type CaptureSource interface {
	// Name returns the platform name, matched against Seed.Platforms.
	Name() string

	// Search captures posts for the given term.
	Search(ctx context.Context, term seed.SearchTerm) ([]CapturedPost, error)
}

// TextExtractor turns an image file into text. Extraction is best-effort;
// failures are non-fatal and logged by the caller.
type TextExtractor interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Document carries everything a renderer needs to produce the structured
// document artifact for one post.
type Document struct {
	MetadataBlock string
	Body          string
	OCRText       string
	ExternalLinks []string
	ImagePaths    []string
	Title         string
	URL           string
	Keyword       string
	Category      string
	ScrapedAt     string
}

// DocumentRenderer produces a formatted document artifact at the given
// output path. A render failure does not block the raw-text artifact,
// which has already been written.
type DocumentRenderer interface {
	Render(ctx context.Context, doc Document, outputPath string) error
}

// ObjectStore uploads local artifact files into a logical folder
// ("{keywordType}_{keywordValue}/raw" under the application root). An
// existing file of the same name is skipped; per-file failures are
// logged and do not abort the batch.
type ObjectStore interface {
	Upload(ctx context.Context, localPaths []string, folder string) error
}

// RecordStore holds the durable collection of all committed records. It
// is loaded at process start and rewritten (merged) at the end, and
// doubles as the dedup backstop across runs.
type RecordStore interface {
	Load(ctx context.Context) ([]PostRecord, error)
	Save(ctx context.Context, records []PostRecord) error
}

// SentimentAnalyzer classifies the overall sentiment of a post and its
// top comment. Best-effort; an empty result is acceptable.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, body, topComment string) (string, error)
}

// Publisher emits an event for every committed record.
type Publisher interface {
	PublishCommitted(record PostRecord) error
}
