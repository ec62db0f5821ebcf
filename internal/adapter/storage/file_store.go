// internal/adapter/storage/file_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anshulpunj-1/insight-linkedin/internal/domain/post"
)

// FileStore persists the record collection as a single JSON array on
// disk. It is the default backend and doubles as the dedup backstop
// across runs: a missing file simply means no prior records.
type FileStore struct {
	path string
}

// NewFileStore creates a file store rooted at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the full record collection. A missing file yields an empty
// collection, not an error.
func (s *FileStore) Load(ctx context.Context) ([]post.PostRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading record file: %w", err)
	}

	var records []post.PostRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing record file: %w", err)
	}
	return records, nil
}

// Save rewrites the full record collection. The write goes through a
// temp file and rename so a crash never leaves a truncated collection.
func (s *FileStore) Save(ctx context.Context, records []post.PostRecord) error {
	if records == nil {
		records = []post.PostRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating record directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp record file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp record file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp record file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing record file: %w", err)
	}
	return nil
}
