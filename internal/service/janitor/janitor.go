// internal/service/janitor/janitor.go

package janitor

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultGraceWindow is how long a temp file is left alone on the
// non-forced cleanup path. Files younger than the window may still be
// open by an in-flight extraction.
const DefaultGraceWindow = 500 * time.Millisecond

// Janitor removes per-post temporary files (downloaded OCR images and
// their sidecar text outputs) from a working folder.
type Janitor struct {
	graceWindow time.Duration
}

// New creates a janitor. A non-positive grace window falls back to
// DefaultGraceWindow.
func New(graceWindow time.Duration) *Janitor {
	if graceWindow <= 0 {
		graceWindow = DefaultGraceWindow
	}
	return &Janitor{graceWindow: graceWindow}
}

// Cleanup deletes every temp file in folder belonging to the given
// content ID (names starting with "{contentID}_ocr_"). With force set,
// all matching files go regardless of age; otherwise files modified
// within the grace window are kept for a later pass. Individual delete
// failures are logged and skipped. Cleanup is idempotent.
func (j *Janitor) Cleanup(folder, contentID string, force bool) error {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading temp folder %s: %w", folder, err)
	}

	prefix := contentID + "_ocr_"
	now := time.Now()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		path := filepath.Join(folder, entry.Name())

		if !force {
			info, err := entry.Info()
			if err != nil {
				log.Printf("Janitor: stat %s failed: %v", path, err)
				continue
			}
			if now.Sub(info.ModTime()) < j.graceWindow {
				continue
			}
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Janitor: could not delete %s: %v", path, err)
		}
	}
	return nil
}
