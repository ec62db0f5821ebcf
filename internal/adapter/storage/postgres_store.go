// internal/adapter/storage/postgres_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

// PostgresStore implements record storage on PostgreSQL. Records are
// keyed by canonical URL; Save upserts so re-running a merge is
// idempotent.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new postgres-backed record store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Migrate creates the records table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS post_records (
			url TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			keyword_type TEXT NOT NULL,
			keyword TEXT NOT NULL,
			filename TEXT NOT NULL,
			video_downloaded BOOLEAN NOT NULL DEFAULT FALSE,
			ocr_extracted BOOLEAN NOT NULL DEFAULT FALSE,
			like_count INTEGER NOT NULL DEFAULT 0,
			comment_count INTEGER NOT NULL DEFAULT 0,
			share_count INTEGER NOT NULL DEFAULT 0,
			engagement_score INTEGER NOT NULL DEFAULT 0,
			engagement_tag TEXT NOT NULL DEFAULT '',
			top_comment TEXT NOT NULL DEFAULT '',
			sentiment TEXT NOT NULL DEFAULT '',
			external_links JSONB NOT NULL DEFAULT '[]',
			category TEXT NOT NULL DEFAULT '',
			scraped_at TIMESTAMPTZ NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT ''
		)
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("error creating post_records table: %w", err)
	}
	return nil
}

// Load retrieves the full record collection ordered by scrape time.
func (s *PostgresStore) Load(ctx context.Context) ([]post.PostRecord, error) {
	query := `
		SELECT
			url, content_id, keyword_type, keyword, filename,
			video_downloaded, ocr_extracted,
			like_count, comment_count, share_count,
			engagement_score, engagement_tag,
			top_comment, sentiment, external_links,
			category, scraped_at, author, content
		FROM post_records
		ORDER BY scraped_at ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}
	defer rows.Close()

	var records []post.PostRecord
	for rows.Next() {
		var r post.PostRecord
		var linksJSON []byte

		err := rows.Scan(
			&r.CanonicalURL,
			&r.ContentID,
			&r.KeywordType,
			&r.Keyword,
			&r.Filename,
			&r.VideoDownloaded,
			&r.OCRExtracted,
			&r.LikeCount,
			&r.CommentCount,
			&r.ShareCount,
			&r.EngagementScore,
			&r.EngagementTag,
			&r.TopComment,
			&r.Sentiment,
			&linksJSON,
			&r.Category,
			&r.ScrapedAt,
			&r.Author,
			&r.Content,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}

		if err := json.Unmarshal(linksJSON, &r.ExternalLinks); err != nil {
			return nil, fmt.Errorf("error unmarshaling external links: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// Save upserts every record in the collection.
func (s *PostgresStore) Save(ctx context.Context, records []post.PostRecord) error {
	query := `
		INSERT INTO post_records (
			url, content_id, keyword_type, keyword, filename,
			video_downloaded, ocr_extracted,
			like_count, comment_count, share_count,
			engagement_score, engagement_tag,
			top_comment, sentiment, external_links,
			category, scraped_at, author, content
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10,
			$11, $12,
			$13, $14, $15,
			$16, $17, $18, $19
		)
		ON CONFLICT (url) DO UPDATE
		SET
			content_id = $2,
			keyword_type = $3,
			keyword = $4,
			filename = $5,
			video_downloaded = $6,
			ocr_extracted = $7,
			like_count = $8,
			comment_count = $9,
			share_count = $10,
			engagement_score = $11,
			engagement_tag = $12,
			top_comment = $13,
			sentiment = $14,
			external_links = $15,
			category = $16,
			scraped_at = $17,
			author = $18,
			content = $19
	`

	for _, r := range records {
		links := r.ExternalLinks
		if links == nil {
			links = []string{}
		}
		linksJSON, err := json.Marshal(links)
		if err != nil {
			return fmt.Errorf("error marshaling external links: %w", err)
		}

		_, err = s.db.Exec(
			ctx,
			query,
			r.CanonicalURL,
			r.ContentID,
			r.KeywordType,
			r.Keyword,
			r.Filename,
			r.VideoDownloaded,
			r.OCRExtracted,
			r.LikeCount,
			r.CommentCount,
			r.ShareCount,
			r.EngagementScore,
			r.EngagementTag,
			r.TopComment,
			r.Sentiment,
			linksJSON,
			r.Category,
			r.ScrapedAt,
			r.Author,
			r.Content,
		)
		if err != nil {
			return fmt.Errorf("error upserting record %s: %w", r.ContentID, err)
		}
	}
	return nil
}
