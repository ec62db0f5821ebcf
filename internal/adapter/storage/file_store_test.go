package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "posts.json"))

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	store := NewFileStore(path)

	in := []post.PostRecord{
		{
			KeywordType:     "keyword",
			Keyword:         "genai",
			CanonicalURL:    "https://x.test/posts/a",
			ContentID:       "a_1a2b",
			Filename:        "a_1a2b.txt",
			EngagementScore: 68,
			EngagementTag:   "high",
			ExternalLinks:   []string{"https://a.test"},
			Category:        "Funding",
			ScrapedAt:       time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
			Author:          "Jane",
			Content:         "body",
		},
	}

	require.NoError(t, store.Save(context.Background(), in))

	out, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "posts.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(context.Background(), nil))
	assert.FileExists(t, path)

	out, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store := NewFileStore(path)
	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
