package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AndreyAkinshin/partialeq/internal/output"
)

// captureOutput redirects the shared writer and the logger for one test.
func captureOutput(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}

	prevOut, prevLogger := out, newLogger
	out = output.NewWithWriters(stdout, stderr, false)
	newLogger = func(*GlobalOptions) (*zap.Logger, error) { return zap.NewNop(), nil }
	t.Cleanup(func() {
		out, newLogger = prevOut, prevLogger
	})
	return stdout, stderr
}

// newProject creates a project directory with the given files and makes it
// the working directory.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	t.Chdir(dir)
	return dir
}

const projectConfig = `{"fixtures": {"directory": "fixtures", "pattern": "*.json"}, "jobs": 2}`

const passingFixture = `{"cases": [
	{"name": "subset", "actual": {"a": 1, "b": 2}, "expected": {"a": 1}},
	{"name": "seven versus six", "actual": [1, 2, 2, 2, 2, 2, 2, 3], "expected": [1, 2, 2, 2, 2, 2, 2, 2],
	 "want": "mismatch", "reason": "count_mismatch", "path": "$[7]"}
]}`

const failingFixture = `{"cases": [
	{"name": "wrong value", "actual": {"a": 1}, "expected": {"a": 2}},
	{"name": "absent key", "actual": {}, "expected": {"b": 1}},
	{"name": "not a mismatch", "actual": 1, "expected": 1, "want": "mismatch"}
]}`

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
