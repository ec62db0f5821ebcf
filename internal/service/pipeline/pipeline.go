// internal/service/pipeline/pipeline.go

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
	"github.com/anshulpunj-1/insight-linkedin/internal/domain/seed"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/classify"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/compose"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/enrich"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/identity"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/janitor"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/ledger"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/scoring"
)

// PageFetcher retrieves the visible text of an external page.
type PageFetcher interface {
	FetchPageText(ctx context.Context, url string) (string, error)
}

// Config holds pipeline tuning knobs.
type Config struct {
	// OutputDir is the root under which per-term working folders are
	// created.
	OutputDir string

	// MaxConcurrentTerms bounds parallel term processing. Zero or one
	// means strictly sequential terms. Posts within a term are always
	// sequential.
	MaxConcurrentTerms int

	// MinContentLength is the minimum trimmed body length for a post to
	// be worth keeping.
	MinContentLength int

	// MaxExcerptLinks bounds how many external links are fetched per
	// post.
	MaxExcerptLinks int

	// FetchTimeout bounds each outbound download (videos, images).
	FetchTimeout time.Duration

	// Retry governs transient capture and download failures.
	Retry RetryPolicy
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir:          "output",
		MaxConcurrentTerms: 1,
		MinContentLength:   20,
		MaxExcerptLinks:    3,
		FetchTimeout:       30 * time.Second,
		Retry:              DefaultRetryPolicy(),
	}
}

// Components are the pluggable collaborators of a pipeline run. Sources,
// Store and Deriver are required; everything else is optional and the
// corresponding enrichment is skipped when nil.
type Components struct {
	Sources    []post.CaptureSource
	Store      post.RecordStore
	Deriver    *identity.Deriver
	Scorer     *scoring.Scorer
	Classifier *classify.Classifier
	Fetcher    PageFetcher
	Extractor  post.TextExtractor
	Renderer   post.DocumentRenderer
	Archive    post.ObjectStore
	Sentiment  post.SentimentAnalyzer
	Publisher  post.Publisher
	Janitor    *janitor.Janitor
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Terms      int
	Captured   int
	Duplicates int
	Skipped    int
	Failed     int
	Committed  int
}

// Pipeline orchestrates capture, dedup, enrichment and persistence for a
// set of seeds.
type Pipeline struct {
	cfg    Config
	deps   Components
	ledger *ledger.Ledger
	client *http.Client

	mu     sync.Mutex
	report RunReport
}

// New creates a pipeline. Missing optional components degrade their
// feature instead of failing; missing required components are an error.
func New(cfg Config, deps Components) (*Pipeline, error) {
	if len(deps.Sources) == 0 {
		return nil, errors.New("pipeline: at least one capture source is required")
	}
	if deps.Store == nil {
		return nil, errors.New("pipeline: record store is required")
	}
	if deps.Deriver == nil {
		return nil, errors.New("pipeline: identity deriver is required")
	}
	if deps.Scorer == nil {
		deps.Scorer = scoring.NewScorer(scoring.DefaultConfig())
	}
	if deps.Classifier == nil {
		deps.Classifier = classify.NewDefaultClassifier()
	}
	if deps.Janitor == nil {
		deps.Janitor = janitor.New(0)
	}
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = 20
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		ledger: ledger.New(),
		client: &http.Client{Timeout: cfg.FetchTimeout},
	}, nil
}

// Run executes the full pipeline for the given seeds. The merged record
// collection is always saved at the end, even when individual terms or
// posts failed.
func (p *Pipeline) Run(ctx context.Context, seeds []seed.Seed) (RunReport, error) {
	p.mu.Lock()
	p.report = RunReport{RunID: uuid.NewString(), StartedAt: time.Now()}
	p.mu.Unlock()

	existing, err := p.deps.Store.Load(ctx)
	if err != nil {
		return p.snapshot(), fmt.Errorf("loading record store: %w", err)
	}
	p.ledger.Load(existing)
	log.Printf("Pipeline run %s: %d existing records loaded", p.report.RunID, len(existing))

	defer func() {
		merged := p.ledger.Flush()
		if saveErr := p.deps.Store.Save(context.Background(), merged); saveErr != nil {
			log.Printf("Pipeline: saving merged records failed: %v", saveErr)
		} else {
			log.Printf("Pipeline: saved %d records (%d new)", len(merged), p.ledger.NewCount())
		}
	}()

	runErr := p.runSeeds(ctx, seeds)

	p.mu.Lock()
	p.report.Committed = p.ledger.NewCount()
	p.report.Duration = time.Since(p.report.StartedAt)
	report := p.report
	p.mu.Unlock()

	return report, runErr
}

func (p *Pipeline) runSeeds(ctx context.Context, seeds []seed.Seed) error {
	type job struct {
		src  post.CaptureSource
		term seed.SearchTerm
	}

	var jobs []job
	for _, s := range seeds {
		if !s.WantsPosts() {
			continue
		}
		for _, src := range p.deps.Sources {
			if !s.TargetsPlatform(src.Name()) {
				continue
			}
			for _, term := range s.Terms() {
				jobs = append(jobs, job{src: src, term: term})
			}
		}
	}

	p.mu.Lock()
	p.report.Terms = len(jobs)
	p.mu.Unlock()

	workers := p.cfg.MaxConcurrentTerms
	if workers <= 1 {
		for _, j := range jobs {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.processTerm(ctx, j.src, j.term)
		}
		return ctx.Err()
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(j job) {
			defer wg.Done()
			defer func() { <-sem }()
			p.processTerm(ctx, j.src, j.term)
		}(j)
	}
	wg.Wait()
	return ctx.Err()
}

// processTerm captures and processes all posts for one term on one
// source. Per-post failures are counted and logged, never propagated.
func (p *Pipeline) processTerm(ctx context.Context, src post.CaptureSource, term seed.SearchTerm) {
	log.Printf("Processing %s term %q on %s", term.Type, term.Value, src.Name())

	var captured []post.CapturedPost
	err := p.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var searchErr error
		captured, searchErr = src.Search(ctx, term)
		return searchErr
	})
	if err != nil {
		log.Printf("%v", post.NewStageError(post.StageCapture, term.Value, err))
		return
	}

	p.count(func(r *RunReport) { r.Captured += len(captured) })

	for _, cp := range captured {
		if ctx.Err() != nil {
			return
		}
		if err := p.processPost(ctx, term, cp); err != nil {
			log.Printf("%v", err)
			p.count(func(r *RunReport) { r.Failed++ })
		}
	}
}

// processPost takes one captured post through identity, dedup,
// enrichment, persistence and commit.
func (p *Pipeline) processPost(ctx context.Context, term seed.SearchTerm, cp post.CapturedPost) error {
	canonicalURL, contentID, err := p.deps.Deriver.Derive(cp.RawURL, cp.ActivityID)
	if err != nil {
		p.count(func(r *RunReport) { r.Skipped++ })
		log.Printf("Skipping post without identity (%s)", term.Value)
		return nil
	}

	if !p.ledger.CheckAndReserve(canonicalURL) {
		p.count(func(r *RunReport) { r.Duplicates++ })
		return nil
	}

	folder := filepath.Join(p.cfg.OutputDir, term.FolderName())
	if err := os.MkdirAll(folder, 0o755); err != nil {
		p.ledger.Release(canonicalURL)
		return post.NewStageError(post.StagePersistence, canonicalURL, err)
	}

	txtPath := filepath.Join(folder, contentID+".txt")
	if _, err := os.Stat(txtPath); err == nil {
		// Artifact already on disk from an earlier run whose ledger
		// entry was lost. Keep the reservation so it is not reprocessed.
		p.count(func(r *RunReport) { r.Duplicates++ })
		log.Printf("Artifact already exists, skipping: %s", txtPath)
		return nil
	}

	body := strings.TrimSpace(cp.Text)
	if len(body) < p.cfg.MinContentLength {
		p.ledger.Release(canonicalURL)
		p.count(func(r *RunReport) { r.Skipped++ })
		return nil
	}

	defer func() {
		if err := p.deps.Janitor.Cleanup(folder, contentID, true); err != nil {
			log.Printf("Janitor: %v", err)
		}
	}()

	score, tag := p.deps.Scorer.Score(cp.LikeCount, cp.CommentCount, cp.ShareCount)
	category := p.deps.Classifier.Classify(body)
	links := enrich.ExtractLinks(body)

	sentiment := ""
	if p.deps.Sentiment != nil {
		if s, err := p.deps.Sentiment.Analyze(ctx, body, cp.TopComment); err != nil {
			log.Printf("Sentiment analysis failed for %s: %v", canonicalURL, err)
		} else {
			sentiment = s
		}
	}

	videoDownloaded := false
	if cp.VideoURL != "" {
		videoPath := filepath.Join(folder, contentID+".mp4")
		if err := p.downloadFile(ctx, cp.VideoURL, videoPath); err != nil {
			log.Printf("Video download failed for %s: %v", canonicalURL, err)
		} else {
			videoDownloaded = true
		}
	}

	ocrText, imagePaths := p.extractImageText(ctx, folder, contentID, cp)

	slideNote := ""
	if n := len(cp.SlideImageURLs); n > 0 {
		slideNote = fmt.Sprintf("Note: this post contains a document/slideshow with %d slides.", n)
	}

	now := time.Now().UTC()
	metadataBlock := compose.ComposeMetadata(compose.Metadata{
		KeywordType:     string(term.Type),
		Keyword:         term.Value,
		URL:             canonicalURL,
		Filename:        contentID + ".txt",
		VideoDownloaded: videoDownloaded,
		OCRExtracted:    ocrText != "",
		LikeCount:       cp.LikeCount,
		CommentCount:    cp.CommentCount,
		ShareCount:      cp.ShareCount,
		EngagementScore: score,
		EngagementTag:   tag,
		TopComment:      cp.TopComment,
		Sentiment:       sentiment,
		ExternalLinks:   links,
		Category:        category,
		ScrapedAt:       now.Format(time.RFC3339),
		Author:          cp.Author,
	})

	excerpts := p.fetchExcerpts(ctx, canonicalURL, links)
	fullText := compose.Assemble(metadataBlock, body, slideNote, ocrText, excerpts)

	if err := os.WriteFile(txtPath, []byte(fullText), 0o644); err != nil {
		p.ledger.Release(canonicalURL)
		return post.NewStageError(post.StagePersistence, canonicalURL, err)
	}

	artifacts := []string{txtPath}
	if p.deps.Renderer != nil {
		docPath := filepath.Join(folder, contentID+".docx")
		doc := post.Document{
			MetadataBlock: metadataBlock,
			Body:          body,
			OCRText:       ocrText,
			ExternalLinks: links,
			ImagePaths:    imagePaths,
			Title:         "Post Extract",
			URL:           canonicalURL,
			Keyword:       term.Value,
			Category:      category,
			ScrapedAt:     now.Format(time.RFC3339),
		}
		if err := p.deps.Renderer.Render(ctx, doc, docPath); err != nil {
			log.Printf("Document render failed for %s: %v", canonicalURL, err)
		} else {
			artifacts = append(artifacts, docPath)
		}
	}

	if p.deps.Archive != nil {
		archiveFolder := term.FolderName() + "/raw"
		if err := p.deps.Archive.Upload(ctx, artifacts, archiveFolder); err != nil {
			log.Printf("%v", post.NewStageError(post.StageUpload, canonicalURL, err))
		}
	}

	record := post.PostRecord{
		KeywordType:     string(term.Type),
		Keyword:         term.Value,
		CanonicalURL:    canonicalURL,
		ContentID:       contentID,
		Filename:        contentID + ".txt",
		VideoDownloaded: videoDownloaded,
		OCRExtracted:    ocrText != "",
		LikeCount:       cp.LikeCount,
		CommentCount:    cp.CommentCount,
		ShareCount:      cp.ShareCount,
		EngagementScore: score,
		EngagementTag:   tag,
		TopComment:      cp.TopComment,
		Sentiment:       sentiment,
		ExternalLinks:   links,
		Category:        category,
		ScrapedAt:       now,
		Author:          cp.Author,
		Content:         body,
	}
	p.ledger.Commit(record)

	if p.deps.Publisher != nil {
		if err := p.deps.Publisher.PublishCommitted(record); err != nil {
			log.Printf("Publishing committed record %s failed: %v", contentID, err)
		}
	}

	log.Printf("Committed %s (score=%d category=%q)", contentID, score, category)
	return nil
}

// extractImageText downloads the post's images into temp files named
// "{contentID}_ocr_{i}.{ext}" and runs text extraction over each one.
// Everything here is best-effort.
func (p *Pipeline) extractImageText(ctx context.Context, folder, contentID string, cp post.CapturedPost) (string, []string) {
	if p.deps.Extractor == nil {
		return "", nil
	}

	urls := append(append([]string{}, cp.ImageURLs...), cp.SlideImageURLs...)
	if len(urls) == 0 {
		return "", nil
	}

	var sections []string
	var paths []string
	for i, imageURL := range urls {
		if ctx.Err() != nil {
			break
		}

		ext := ".jpg"
		if strings.Contains(strings.ToLower(imageURL), ".png") {
			ext = ".png"
		}
		imagePath := filepath.Join(folder, fmt.Sprintf("%s_ocr_%d%s", contentID, i, ext))

		if err := p.downloadFile(ctx, imageURL, imagePath); err != nil {
			log.Printf("Image download failed (%s): %v", imageURL, err)
			continue
		}
		paths = append(paths, imagePath)

		text, err := p.deps.Extractor.ExtractText(ctx, imagePath)
		if err != nil {
			log.Printf("Text extraction failed for %s: %v", imagePath, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			sections = append(sections, text)
		}
	}

	return strings.Join(sections, "\n\n"), paths
}

// fetchExcerpts pulls the visible text of the first few external links.
func (p *Pipeline) fetchExcerpts(ctx context.Context, canonicalURL string, links []string) []compose.Excerpt {
	if p.deps.Fetcher == nil || len(links) == 0 {
		return nil
	}

	limit := p.cfg.MaxExcerptLinks
	if limit <= 0 || limit > len(links) {
		limit = len(links)
	}

	var excerpts []compose.Excerpt
	for _, link := range links[:limit] {
		if ctx.Err() != nil {
			break
		}
		text, err := p.deps.Fetcher.FetchPageText(ctx, link)
		if err != nil {
			log.Printf("%v", post.NewStageError(post.StageEnrichment, canonicalURL, err))
			continue
		}
		if text == "" {
			continue
		}
		excerpts = append(excerpts, compose.Excerpt{URL: link, Text: text})
	}
	return excerpts
}

func (p *Pipeline) downloadFile(ctx context.Context, url, destPath string) error {
	return p.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}

		out, err := os.Create(destPath)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, resp.Body); err != nil {
			out.Close()
			os.Remove(destPath)
			return err
		}
		return out.Close()
	})
}

func (p *Pipeline) count(update func(*RunReport)) {
	p.mu.Lock()
	update(&p.report)
	p.mu.Unlock()
}

func (p *Pipeline) snapshot() RunReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.report
}
