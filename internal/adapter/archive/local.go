// internal/adapter/archive/local.go

package archive

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// LocalStore archives artifact files under a root directory, preserving
// the logical folder layout ("{term}/raw/{filename}"). It stands in for
// a synced drive mount in single-host deployments.
type LocalStore struct {
	root string
}

// NewLocalStore creates an archive rooted at root. The root must already
// exist; a missing root usually means the sync mount is down, which
// should fail loudly at startup rather than silently mid-run.
func NewLocalStore(root string) (*LocalStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("archive root unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive root is not a directory: %s", root)
	}
	return &LocalStore{root: root}, nil
}

// Upload copies each local file into the folder under the archive root.
// Files already present are skipped; per-file failures are logged and do
// not abort the batch.
func (s *LocalStore) Upload(ctx context.Context, localPaths []string, folder string) error {
	destDir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating archive folder %s: %w", folder, err)
	}

	for _, src := range localPaths {
		if err := ctx.Err(); err != nil {
			return err
		}

		dest := filepath.Join(destDir, filepath.Base(src))
		if _, err := os.Stat(dest); err == nil {
			continue
		}

		if err := copyFile(src, dest); err != nil {
			log.Printf("Archive: uploading %s failed: %v", src, err)
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
