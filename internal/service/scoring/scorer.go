// internal/service/scoring/scorer.go

package scoring

// HighTag is the qualitative tag attached to posts whose score crosses
// the configured cutoff.
const HighTag = "high"

// Config holds the engagement weighting thresholds. The tiers and the
// high cutoff are undocumented heuristics inherited from the seed
// surfacing rules, kept configurable rather than hard-coded.
type Config struct {
	LikeTier    int
	CommentTier int
	ShareTier   int
	HighCutoff  int
}

// DefaultConfig returns the standard weighting thresholds.
func DefaultConfig() Config {
	return Config{
		LikeTier:    10,
		CommentTier: 5,
		ShareTier:   3,
		HighCutoff:  50,
	}
}

// Scorer converts raw interaction counts into a weighted engagement
// score. Weights are tiered by volume rather than flat multipliers so
// that posts crossing an engagement threshold are rewarded
// disproportionately.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer with the given thresholds.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the weighted engagement score and tag for a post.
// Negative counts are treated as zero.
func (s *Scorer) Score(likeCount, commentCount, shareCount int) (score int, tag string) {
	likeCount = clamp(likeCount)
	commentCount = clamp(commentCount)
	shareCount = clamp(shareCount)

	likeWeight := 1
	if likeCount > s.cfg.LikeTier {
		likeWeight = 2
	}
	commentWeight := 2
	if commentCount > s.cfg.CommentTier {
		commentWeight = 3
	}
	shareWeight := 2
	if shareCount > s.cfg.ShareTier {
		shareWeight = 5
	}

	score = likeCount*likeWeight + commentCount*commentWeight + shareCount*shareWeight
	if score > s.cfg.HighCutoff {
		tag = HighTag
	}
	return score, tag
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
