package fixture

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates name under dir with content, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// loadOne loads a single-case fixture from content.
func loadOne(t *testing.T, name, content string) Case {
	t.Helper()
	path := writeFile(t, t.TempDir(), name, content)
	cases, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("LoadFile() returned %d cases, want 1", len(cases))
	}
	return cases[0]
}
