package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/partialeq/internal/config"
)

// Project represents a loaded partialeq project.
type Project struct {
	Root     string
	Config   *config.Config
	Warnings []string

	// HasConfig is false for a project rooted at the working directory
	// because no .partialeq.json was found.
	HasConfig bool

	configFile string
}

// LoadProject finds and loads a project from the current directory. Without
// a config file the working directory becomes the root and defaults apply.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if errors.Is(err, ErrNoProjectRoot) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return &Project{Root: cwd, Config: config.Default()}, nil
	}
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
func LoadProjectFrom(root string) (*Project, error) {
	return LoadProjectWithConfig(root, filepath.Join(root, config.FileName))
}

// LoadProjectWithConfig loads a project rooted at root from an explicit
// config file.
func LoadProjectWithConfig(root, configPath string) (*Project, error) {
	cfg, warnings, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &Project{
		Root:       root,
		Config:     cfg,
		Warnings:   warnings,
		HasConfig:  true,
		configFile: configPath,
	}, nil
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	if p.configFile != "" {
		return p.configFile
	}
	return filepath.Join(p.Root, config.FileName)
}

// FixturesDirectory returns the absolute path of the fixtures directory.
func (p *Project) FixturesDirectory() string {
	return filepath.Join(p.Root, p.Config.Fixtures.Directory)
}

// FixtureFiles lists the fixture files of the project in sorted order.
func (p *Project) FixtureFiles() ([]string, error) {
	dir := p.FixturesDirectory()
	if err := validateDirectory(dir); err != nil {
		return nil, err
	}
	return DiscoverFixtures(dir, p.Config.Fixtures.Pattern)
}
