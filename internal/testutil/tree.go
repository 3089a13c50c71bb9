package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteArtifacts writes files under root, creating parent directories.
// Keys are slash-separated paths relative to root, e.g. "branch4/risk_scores.csv".
func WriteArtifacts(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// ArtifactRoot creates a fresh artifact root populated with files.
func ArtifactRoot(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	WriteArtifacts(t, root, files)
	return root
}
