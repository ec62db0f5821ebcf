// internal/adapter/storage/sqlite_store.go

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

// SQLiteStore implements record storage on an embedded SQLite database,
// for single-host deployments that want durability without running a
// database server.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// runs migrations.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// modernc sqlite is not safe for concurrent writers on one connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS post_records (
			url TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			keyword_type TEXT NOT NULL,
			keyword TEXT NOT NULL,
			filename TEXT NOT NULL,
			video_downloaded INTEGER NOT NULL DEFAULT 0,
			ocr_extracted INTEGER NOT NULL DEFAULT 0,
			like_count INTEGER NOT NULL DEFAULT 0,
			comment_count INTEGER NOT NULL DEFAULT 0,
			share_count INTEGER NOT NULL DEFAULT 0,
			engagement_score INTEGER NOT NULL DEFAULT 0,
			engagement_tag TEXT NOT NULL DEFAULT '',
			top_comment TEXT NOT NULL DEFAULT '',
			sentiment TEXT NOT NULL DEFAULT '',
			external_links TEXT NOT NULL DEFAULT '[]',
			category TEXT NOT NULL DEFAULT '',
			scraped_at TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT ''
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error creating post_records table: %w", err)
	}
	return nil
}

// Load retrieves the full record collection ordered by scrape time.
func (s *SQLiteStore) Load(ctx context.Context) ([]post.PostRecord, error) {
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

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying records: %w", err)
	}
	defer rows.Close()

	var records []post.PostRecord
	for rows.Next() {
		var r post.PostRecord
		var linksJSON string
		var scrapedAt string

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
			&scrapedAt,
			&r.Author,
			&r.Content,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning record: %w", err)
		}

		if err := json.Unmarshal([]byte(linksJSON), &r.ExternalLinks); err != nil {
			return nil, fmt.Errorf("error unmarshaling external links: %w", err)
		}
		if r.ScrapedAt, err = time.Parse(time.RFC3339, scrapedAt); err != nil {
			return nil, fmt.Errorf("error parsing scraped_at: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// Save upserts every record in the collection inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []post.PostRecord) error {
	query := `
		INSERT INTO post_records (
			url, content_id, keyword_type, keyword, filename,
			video_downloaded, ocr_extracted,
			like_count, comment_count, share_count,
			engagement_score, engagement_tag,
			top_comment, sentiment, external_links,
			category, scraped_at, author, content
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE
		SET
			content_id = excluded.content_id,
			keyword_type = excluded.keyword_type,
			keyword = excluded.keyword,
			filename = excluded.filename,
			video_downloaded = excluded.video_downloaded,
			ocr_extracted = excluded.ocr_extracted,
			like_count = excluded.like_count,
			comment_count = excluded.comment_count,
			share_count = excluded.share_count,
			engagement_score = excluded.engagement_score,
			engagement_tag = excluded.engagement_tag,
			top_comment = excluded.top_comment,
			sentiment = excluded.sentiment,
			external_links = excluded.external_links,
			category = excluded.category,
			scraped_at = excluded.scraped_at,
			author = excluded.author,
			content = excluded.content
	`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		links := r.ExternalLinks
		if links == nil {
			links = []string{}
		}
		linksJSON, err := json.Marshal(links)
		if err != nil {
			return fmt.Errorf("error marshaling external links: %w", err)
		}

		_, err = stmt.ExecContext(
			ctx,
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
			string(linksJSON),
			r.Category,
			r.ScrapedAt.UTC().Format(time.RFC3339),
			r.Author,
			r.Content,
		)
		if err != nil {
			return fmt.Errorf("error upserting record %s: %w", r.ContentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing records: %w", err)
	}
	return nil
}
