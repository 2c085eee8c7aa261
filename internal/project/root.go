// Package project provides project discovery and loading functionality.
package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/partialeq/internal/config"
)

// ErrNoProjectRoot is returned when .partialeq.json is not found.
var ErrNoProjectRoot = errors.New(config.FileName + " not found: not a partialeq project (or any parent up to the root)")

// FindRoot walks up from the current working directory until it finds .partialeq.json.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds .partialeq.json.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}
