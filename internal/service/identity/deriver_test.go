package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

func newTestDeriver() *Deriver {
	return NewDeriver(
		"https://www.linkedin.com",
		"https://www.linkedin.com/feed/update/urn:li:activity:%s",
	)
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain url untouched", "https://x.test/posts/abc", "https://x.test/posts/abc"},
		{"query stripped", "https://x.test/posts/abc?utm=1&ref=feed", "https://x.test/posts/abc"},
		{"fragment stripped", "https://x.test/posts/abc#comments", "https://x.test/posts/abc"},
		{"query before fragment", "https://x.test/p?a=1#frag", "https://x.test/p"},
		{"fragment before query", "https://x.test/p#frag?a=1", "https://x.test/p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.in))
		})
	}
}

func TestContentIDStable(t *testing.T) {
	url := "https://www.linkedin.com/posts/some-person_ai-hiring-activity-7123"

	first := ContentID(url)
	second := ContentID(url)
	assert.Equal(t, first, second)

	// Slug keeps only safe characters, followed by a 4-hex suffix.
	assert.Regexp(t, `^[A-Za-z0-9_-]+_[0-9a-f]{4}$`, first)
}

func TestContentIDDistinguishesSharedSlug(t *testing.T) {
	a := ContentID("https://a.test/posts/update")
	b := ContentID("https://b.test/posts/update")
	assert.NotEqual(t, a, b)
}

func TestDeriveVariants(t *testing.T) {
	d := newTestDeriver()

	t.Run("query stripped and id derived", func(t *testing.T) {
		canonical, contentID, err := d.Derive("https://www.linkedin.com/posts/abc?utm=123", "")
		require.NoError(t, err)
		assert.Equal(t, "https://www.linkedin.com/posts/abc", canonical)
		assert.NotEmpty(t, contentID)
	})

	t.Run("relative url resolved against base", func(t *testing.T) {
		canonical, _, err := d.Derive("/posts/abc", "")
		require.NoError(t, err)
		assert.Equal(t, "https://www.linkedin.com/posts/abc", canonical)
	})

	t.Run("activity fallback", func(t *testing.T) {
		canonical, _, err := d.Derive("", "7123456")
		require.NoError(t, err)
		assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:activity:7123456", canonical)
	})

	t.Run("no identity at all", func(t *testing.T) {
		_, _, err := d.Derive("", "")
		assert.ErrorIs(t, err, post.ErrIdentityUnresolved)
	})

	t.Run("same input same output", func(t *testing.T) {
		c1, id1, err1 := d.Derive("https://x.test/p/1?q=2", "")
		c2, id2, err2 := d.Derive("https://x.test/p/1?q=2", "")
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, c1, c2)
		assert.Equal(t, id1, id2)
	})
}
