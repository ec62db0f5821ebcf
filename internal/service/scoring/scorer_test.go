package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTiers(t *testing.T) {
	s := NewScorer(DefaultConfig())

	tests := []struct {
		name      string
		likes     int
		comments  int
		shares    int
		wantScore int
		wantTag   string
	}{
		{"all zero", 0, 0, 0, 0, ""},
		{"low volume flat weights", 5, 2, 1, 5*1 + 2*2 + 1*2, ""},
		{"likes cross tier", 11, 0, 0, 22, ""},
		{"likes at tier stay flat", 10, 0, 0, 10, ""},
		{"comments cross tier", 0, 6, 0, 18, ""},
		{"shares cross tier", 0, 0, 4, 20, ""},
		{"high engagement", 15, 6, 4, 15*2 + 6*3 + 4*5, HighTag},
		{"at cutoff is not high", 25, 0, 0, 50, ""},
		{"negative counts clamp to zero", -3, -1, -5, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, tag := s.Score(tt.likes, tt.comments, tt.shares)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestScoreMonotonic(t *testing.T) {
	s := NewScorer(DefaultConfig())

	prev := -1
	for likes := 0; likes <= 30; likes++ {
		score, _ := s.Score(likes, 3, 2)
		assert.GreaterOrEqual(t, score, prev, "score regressed at likes=%d", likes)
		prev = score
	}
}

func TestScoreCustomCutoff(t *testing.T) {
	s := NewScorer(Config{LikeTier: 1, CommentTier: 1, ShareTier: 1, HighCutoff: 5})

	score, tag := s.Score(3, 0, 0)
	assert.Equal(t, 6, score)
	assert.Equal(t, HighTag, tag)
}
