// cmd/scraper/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/archive"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/capture/bluesky"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/capture/reddit"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/capture/twitter"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/events"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/ocr"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/render"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/sentiment"
	"github.com/anshulpunj-1/insight-linkedin/internal/adapter/storage"
	"github.com/anshulpunj-1/insight-linkedin/internal/config"
	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
	"github.com/anshulpunj-1/insight-linkedin/internal/domain/seed"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/enrich"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/identity"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/janitor"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/pipeline"
	"github.com/anshulpunj-1/insight-linkedin/internal/service/scoring"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context cancelled on interrupt so a run can be stopped
	// mid-way; already committed posts are still flushed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Println("Shutdown signal received, finishing current post")
		cancel()
	}()

	// Load seeds
	seeds, err := seed.Load(resolvePath(cfg.AppRoot, cfg.SeedFile))
	if err != nil {
		log.Fatalf("Failed to load seeds: %v", err)
	}
	log.Printf("Loaded %d seeds", len(seeds))

	// Initialize record store
	store, cleanup, err := initStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize record store: %v", err)
	}
	defer cleanup()

	// Initialize capture sources
	sources := initSources(cfg)
	if len(sources) == 0 {
		log.Fatal("No capture sources configured")
	}

	// Initialize optional collaborators
	deps := pipeline.Components{
		Sources: sources,
		Store:   store,
		Deriver: identity.NewDeriver(cfg.Pipeline.BaseURL, cfg.Pipeline.ActivityURLTemplate),
		Scorer: scoring.NewScorer(scoring.Config{
			LikeTier:    cfg.Scoring.LikeTier,
			CommentTier: cfg.Scoring.CommentTier,
			ShareTier:   cfg.Scoring.ShareTier,
			HighCutoff:  cfg.Scoring.HighCutoff,
		}),
		Fetcher:  enrich.NewLinkFetcher(cfg.Pipeline.FetchTimeout),
		Renderer: render.NewDocxRenderer(),
		Janitor:  janitor.New(cfg.Pipeline.GraceWindow),
	}

	archiveStore, err := archive.NewLocalStore(cfg.AppRoot)
	if err != nil {
		log.Fatalf("Failed to open archive root: %v", err)
	}
	deps.Archive = archiveStore

	if cfg.OCR.Enabled {
		extractor, err := ocr.NewCLIExtractor(ocr.Config{
			Command: cfg.OCR.Command,
			Script:  cfg.OCR.Script,
			Timeout: cfg.OCR.Timeout,
		})
		if err != nil {
			log.Fatalf("Failed to initialize OCR: %v", err)
		}
		deps.Extractor = extractor
	}

	if cfg.Sentiment.Enabled {
		deps.Sentiment = sentiment.NewOllamaAnalyzer(sentiment.Config{
			BaseURL: cfg.Sentiment.OllamaURL,
			Model:   cfg.Sentiment.Model,
			Timeout: cfg.Sentiment.Timeout,
		})
	}

	if cfg.NATS.Enabled {
		natsConn, err := initNATS(cfg.NATS)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsConn.Close()
		deps.Publisher = events.NewNATSPublisher(natsConn, cfg.NATS.EventsTopic)
	}

	// Build and run the pipeline
	p, err := pipeline.New(pipeline.Config{
		OutputDir:          resolvePath(cfg.AppRoot, cfg.OutputDir),
		MaxConcurrentTerms: cfg.Pipeline.MaxConcurrentTerms,
		MinContentLength:   cfg.Pipeline.MinContentLength,
		MaxExcerptLinks:    cfg.Pipeline.MaxExcerptLinks,
		FetchTimeout:       cfg.Pipeline.FetchTimeout,
		Retry: pipeline.RetryPolicy{
			MaxAttempts: cfg.Pipeline.RetryAttempts,
			Backoff:     cfg.Pipeline.RetryBackoff,
		},
	}, deps)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	report, err := p.Run(ctx, seeds)
	if err != nil && ctx.Err() == nil {
		log.Printf("Pipeline run finished with error: %v", err)
	}

	log.Printf("Run %s done in %s: %d terms, %d captured, %d duplicates, %d skipped, %d failed, %d committed",
		report.RunID, report.Duration.Round(time.Millisecond), report.Terms, report.Captured,
		report.Duplicates, report.Skipped, report.Failed, report.Committed)
}

// Initialize the capture sources available with the current credentials
func initSources(cfg config.Config) []post.CaptureSource {
	var sources []post.CaptureSource

	if cfg.Capture.TwitterBearerToken != "" {
		src, err := twitter.NewSource(twitter.Config{
			BearerToken: cfg.Capture.TwitterBearerToken,
			MaxResults:  cfg.Capture.TwitterMaxResults,
		})
		if err != nil {
			log.Printf("Twitter source disabled: %v", err)
		} else {
			sources = append(sources, src)
		}
	}

	sources = append(sources, bluesky.NewSource(bluesky.Config{
		FirehoseURL:   cfg.Capture.BlueskyFirehoseURL,
		CollectWindow: cfg.Capture.BlueskyCollectWindow,
	}))

	sources = append(sources, reddit.NewSource(reddit.Config{
		UserAgent: cfg.Capture.RedditUserAgent,
		Limit:     cfg.Capture.RedditLimit,
	}))

	return sources
}

// Initialize the configured record store backend
func initStore(ctx context.Context, cfg config.Config) (post.RecordStore, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store := storage.NewPostgresStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case "sqlite":
		store, err := storage.NewSQLiteStore(ctx, resolvePath(cfg.AppRoot, cfg.Store.SQLitePath))
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	default:
		store := storage.NewFileStore(resolvePath(cfg.AppRoot, cfg.Store.FilePath))
		return store, func() {}, nil
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
