package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteVideo creates a small video file at the given path.
func WriteVideo(t testing.TB, path string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("video-bytes"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
