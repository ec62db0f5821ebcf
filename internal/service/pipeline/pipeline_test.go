package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
	"github.com/anshulpunj-1/insight-linkedin/internal/domain/seed"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/compose"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/identity"
)

type fakeSource struct {
	name  string
	posts []post.CapturedPost
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Search(ctx context.Context, term seed.SearchTerm) ([]post.CapturedPost, error) {
	return s.posts, nil
}

type memoryStore struct {
	mu      sync.Mutex
	records []post.PostRecord
	saves   int
}

func (m *memoryStore) Load(ctx context.Context) ([]post.PostRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]post.PostRecord(nil), m.records...), nil
}

func (m *memoryStore) Save(ctx context.Context, records []post.PostRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]post.PostRecord(nil), records...)
	m.saves++
	return nil
}

type capturingPublisher struct {
	mu        sync.Mutex
	published []post.PostRecord
}

func (p *capturingPublisher) PublishCommitted(record post.PostRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, record)
	return nil
}

func testDeriver() *identity.Deriver {
	return identity.NewDeriver("https://x.test", "https://x.test/activity/%s")
}

func capturedPost(n int, likes int) post.CapturedPost {
	return post.CapturedPost{
		Platform:     "fake",
		RawURL:       fmt.Sprintf("https://x.test/posts/p%d?utm=tracking", n),
		Author:       "Jane",
		Text:         fmt.Sprintf("Post number %d with enough body text to pass the length gate.", n),
		LikeCount:    likes,
		CommentCount: 6,
		ShareCount:   4,
	}
}

func newTestPipeline(t *testing.T, store post.RecordStore, sources []post.CaptureSource, mutate func(*Config, *Components)) *Pipeline {
	t.Helper()

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.Retry = RetryPolicy{MaxAttempts: 1}

	deps := Components{
		Sources: sources,
		Store:   store,
		Deriver: testDeriver(),
	}
	if mutate != nil {
		mutate(&cfg, &deps)
	}

	p, err := New(cfg, deps)
	require.NoError(t, err)
	return p
}

func TestRunCommitsAndPersists(t *testing.T) {
	store := &memoryStore{}
	publisher := &capturingPublisher{}
	src := &fakeSource{name: "fake", posts: []post.CapturedPost{
		capturedPost(1, 15),
		capturedPost(2, 2),
		{Platform: "fake", RawURL: "https://x.test/posts/short", Text: "too short"},
	}}

	var outputDir string
	p := newTestPipeline(t, store, []post.CaptureSource{src}, func(cfg *Config, deps *Components) {
		outputDir = cfg.OutputDir
		deps.Publisher = publisher
	})

	seeds := []seed.Seed{{Keywords: []string{"agentic ai"}}}
	report, err := p.Run(context.Background(), seeds)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Terms)
	assert.Equal(t, 3, report.Captured)
	assert.Equal(t, 2, report.Committed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	// Durable collection was written once at run end.
	assert.Equal(t, 1, store.saves)
	require.Len(t, store.records, 2)

	first := store.records[0]
	assert.Equal(t, "https://x.test/posts/p1", first.CanonicalURL)
	assert.Equal(t, "keyword", first.KeywordType)
	assert.Equal(t, "agentic ai", first.Keyword)
	assert.Equal(t, 15*2+6*3+4*5, first.EngagementScore)
	assert.Equal(t, "high", first.EngagementTag)
	assert.NotEmpty(t, first.Category)

	// Artifact on disk with the metadata block.
	artifact := filepath.Join(outputDir, "keyword_agentic_ai", first.ContentID+".txt")
	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	_, ok := compose.ExtractMetadataBlock(string(data))
	assert.True(t, ok)
	assert.Contains(t, string(data), first.Content)

	// Every committed record was published.
	assert.Len(t, publisher.published, 2)
}

func TestSecondRunAddsNothing(t *testing.T) {
	store := &memoryStore{}
	src := &fakeSource{name: "fake", posts: []post.CapturedPost{
		capturedPost(1, 15),
		capturedPost(2, 2),
	}}
	seeds := []seed.Seed{{Keywords: []string{"agentic ai"}}}

	first := newTestPipeline(t, store, []post.CaptureSource{src}, nil)
	report, err := first.Run(context.Background(), seeds)
	require.NoError(t, err)
	require.Equal(t, 2, report.Committed)

	second := newTestPipeline(t, store, []post.CaptureSource{src}, nil)
	report, err = second.Run(context.Background(), seeds)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Committed)
	assert.Equal(t, 2, report.Duplicates)
	assert.Len(t, store.records, 2)
}

func TestDuplicateURLWithinRunProcessedOnce(t *testing.T) {
	store := &memoryStore{}

	// Two capture variants of the same post differing only in tracking
	// params canonicalize to one URL.
	dup := capturedPost(1, 15)
	dup.RawURL = "https://x.test/posts/p1#comments"
	src := &fakeSource{name: "fake", posts: []post.CapturedPost{capturedPost(1, 15), dup}}

	p := newTestPipeline(t, store, []post.CaptureSource{src}, nil)
	report, err := p.Run(context.Background(), []seed.Seed{{Keywords: []string{"ai"}}})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Committed)
	assert.Equal(t, 1, report.Duplicates)
}

func TestConcurrentTermsSingleCommitPerURL(t *testing.T) {
	store := &memoryStore{}
	src := &fakeSource{name: "fake", posts: []post.CapturedPost{capturedPost(1, 15)}}

	p := newTestPipeline(t, store, []post.CaptureSource{src}, func(cfg *Config, deps *Components) {
		cfg.MaxConcurrentTerms = 4
	})

	seeds := []seed.Seed{{Keywords: []string{"a", "b", "c", "d", "e", "f"}}}
	report, err := p.Run(context.Background(), seeds)
	require.NoError(t, err)

	assert.Equal(t, 6, report.Terms)
	assert.Equal(t, 1, report.Committed)
	assert.Equal(t, 5, report.Duplicates)
	assert.Len(t, store.records, 1)
}

func TestPlatformScoping(t *testing.T) {
	store := &memoryStore{}
	twitterSrc := &fakeSource{name: "twitter", posts: []post.CapturedPost{capturedPost(1, 15)}}
	redditSrc := &fakeSource{name: "reddit", posts: []post.CapturedPost{capturedPost(2, 15)}}

	p := newTestPipeline(t, store, []post.CaptureSource{twitterSrc, redditSrc}, nil)

	seeds := []seed.Seed{{Keywords: []string{"ai"}, Platforms: []string{"reddit"}}}
	report, err := p.Run(context.Background(), seeds)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Terms)
	require.Len(t, store.records, 1)
	assert.Equal(t, "https://x.test/posts/p2", store.records[0].CanonicalURL)
}

func TestPostWithoutIdentitySkipped(t *testing.T) {
	store := &memoryStore{}
	src := &fakeSource{name: "fake", posts: []post.CapturedPost{
		{Platform: "fake", Text: "a post body long enough to pass the gate but with no url"},
	}}

	p := newTestPipeline(t, store, []post.CaptureSource{src}, nil)
	report, err := p.Run(context.Background(), []seed.Seed{{Keywords: []string{"ai"}}})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Committed)
	assert.Empty(t, store.records)
}

func TestExistingArtifactSkipped(t *testing.T) {
	store := &memoryStore{}
	src := &fakeSource{name: "fake", posts: []post.CapturedPost{capturedPost(1, 15)}}

	var outputDir string
	p := newTestPipeline(t, store, []post.CaptureSource{src}, func(cfg *Config, deps *Components) {
		outputDir = cfg.OutputDir
	})

	// Pre-create the artifact the post would produce.
	_, contentID, err := testDeriver().Derive(capturedPost(1, 15).RawURL, "")
	require.NoError(t, err)
	folder := filepath.Join(outputDir, "keyword_ai")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, contentID+".txt"), []byte("existing"), 0o644))

	report, err := p.Run(context.Background(), []seed.Seed{{Keywords: []string{"ai"}}})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Committed)
	assert.Equal(t, 1, report.Duplicates)

	// Existing artifact untouched.
	data, err := os.ReadFile(filepath.Join(folder, contentID+".txt"))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}
