package janitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestCleanupForceRemovesAllTempFiles(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, dir, "post1_ocr_0.jpg")
	b := touch(t, dir, "post1_ocr_1.png")
	keepOther := touch(t, dir, "post2_ocr_0.jpg")
	keepArtifact := touch(t, dir, "post1.txt")

	j := New(0)
	require.NoError(t, j.Cleanup(dir, "post1", true))

	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)
	assert.FileExists(t, keepOther)
	assert.FileExists(t, keepArtifact)
}

func TestCleanupGraceWindowPreservesFreshFiles(t *testing.T) {
	dir := t.TempDir()
	fresh := touch(t, dir, "post1_ocr_0.jpg")

	j := New(time.Hour)
	require.NoError(t, j.Cleanup(dir, "post1", false))

	assert.FileExists(t, fresh)
}

func TestCleanupGraceWindowRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	stale := touch(t, dir, "post1_ocr_0.jpg")
	old := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(stale, old, old))

	j := New(time.Second)
	require.NoError(t, j.Cleanup(dir, "post1", false))

	assert.NoFileExists(t, stale)
}

func TestCleanupIdempotent(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "post1_ocr_0.jpg")

	j := New(0)
	require.NoError(t, j.Cleanup(dir, "post1", true))
	require.NoError(t, j.Cleanup(dir, "post1", true))
}

func TestCleanupMissingFolder(t *testing.T) {
	j := New(0)
	assert.NoError(t, j.Cleanup(filepath.Join(t.TempDir(), "missing"), "post1", true))
}
