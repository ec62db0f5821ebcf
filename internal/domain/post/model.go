package post

import (
	"time"
)

// CapturedPost is the ephemeral output of a capture source. It has no
// identity of its own until the identity deriver processes it.
type CapturedPost struct {
	Platform       string
	RawURL         string
	ActivityID     string
	Author         string
	Text           string
	LikeCount      int
	CommentCount   int
	ShareCount     int
	TopComment     string
	ImageURLs      []string
	SlideImageURLs []string
	VideoURL       string
}

// PostRecord is the durable unit the pipeline produces. CanonicalURL is
// the dedup key and is globally unique across all records ever committed
// (enforced by the ledger, not by the record itself).
type PostRecord struct {
	KeywordType     string    `json:"keywordType"`
	Keyword         string    `json:"keyword"`
	CanonicalURL    string    `json:"url"`
	ContentID       string    `json:"contentId"`
	Filename        string    `json:"filename"`
	VideoDownloaded bool      `json:"videoDownloaded"`
	OCRExtracted    bool      `json:"ocrExtracted"`
	LikeCount       int       `json:"likeCount"`
	CommentCount    int       `json:"commentCount"`
	ShareCount      int       `json:"shareCount"`
	EngagementScore int       `json:"engagementScore"`
	EngagementTag   string    `json:"engagementTag"`
	TopComment      string    `json:"topComment"`
	Sentiment       string    `json:"sentiment"`
	ExternalLinks   []string  `json:"externalLinks"`
	Category        string    `json:"category"`
	ScrapedAt       time.Time `json:"scrapedAt"`
	Author          string    `json:"author"`
	Content         string    `json:"content"`
}

// Filter defines criteria for querying stored records.
type Filter struct {
	Category    string
	KeywordType string
	MinScore    int
	Limit       int
}

// Matches reports whether a record satisfies the filter.
func (f Filter) Matches(r PostRecord) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.KeywordType != "" && r.KeywordType != f.KeywordType {
		return false
	}
	if r.EngagementScore < f.MinScore {
		return false
	}
	return true
}
