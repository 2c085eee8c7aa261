package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverFixtures walks dir and returns the files whose names match
// pattern, sorted. A leading "**/" in pattern is accepted and ignored since
// the walk is always recursive. Hidden and vendored directories are skipped.
func DiscoverFixtures(dir, pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(pattern, "**/")
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid fixture pattern %q: %w", pattern, err)
	}

	var matches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && isExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if matched {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

// ExpandPaths resolves command-line arguments to fixture files: directories
// are searched with pattern, files are taken as given. The result is sorted
// and free of duplicates.
func ExpandPaths(paths []string, pattern string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("fixture path %q: %w", p, err)
		}
		found := []string{p}
		if info.IsDir() {
			if found, err = DiscoverFixtures(p, pattern); err != nil {
				return nil, err
			}
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// isExcludedDir returns true for directories that never hold fixtures.
func isExcludedDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	excluded := map[string]bool{
		"node_modules": true,
		"vendor":       true,
	}
	return excluded[name]
}

// validateDirectory checks that dir exists and is a directory.
func validateDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("fixtures directory %q does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access fixtures directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("fixtures path %q is not a directory", dir)
	}
	return nil
}
