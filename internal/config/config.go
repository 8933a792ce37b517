package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file Find looks for
const FileName = ".arbor.yaml"

// DatabasePath returns the database path from the ARBOR_DB env var,
// falling back to arbor/tree.db under the XDG data directory.
func DatabasePath() string {
	if env := os.Getenv("ARBOR_DB"); env != "" {
		return env
	}

	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "arbor", "tree.db")
}

// Settings are the optional user preferences read from .arbor.yaml
type Settings struct {
	// Database overrides DatabasePath
	Database string `yaml:"database,omitempty"`
	// ShowHidden includes dot files when browsing a directory
	ShowHidden bool `yaml:"show_hidden,omitempty"`
	// ExpandDepth expands branches above this depth on load
	ExpandDepth int `yaml:"expand_depth,omitempty"`
	// PageFraction is how much of the viewport PgUp/PgDn scroll, in (0, 1]
	PageFraction float64 `yaml:"page_fraction,omitempty"`
}

// Default returns the settings used when no file is found
func Default() Settings {
	return Settings{
		Database:     DatabasePath(),
		ExpandDepth:  1,
		PageFraction: 1,
	}
}

// Load reads settings from path; fields the file leaves out keep their defaults
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	def := Default()
	s := def
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	switch {
	case s.Database == "":
		s.Database = def.Database
	case s.Database != def.Database && !filepath.IsAbs(s.Database) && s.Database[0] != '~':
		// relative to the settings file
		s.Database = filepath.Join(filepath.Dir(path), s.Database)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Validate checks value ranges
func (s Settings) Validate() error {
	if s.ExpandDepth < 0 {
		return fmt.Errorf("expand_depth must not be negative, got %d", s.ExpandDepth)
	}
	if s.PageFraction <= 0 || s.PageFraction > 1 {
		return fmt.Errorf("page_fraction must be in (0, 1], got %g", s.PageFraction)
	}
	return nil
}

// Find searches for .arbor.yaml starting from dir and walking up. It returns
// fs.ErrNotExist when no file is found.
func Find(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fs.ErrNotExist
}

// Resolve finds and loads the settings for dir, or returns the defaults
// when there is no settings file
func Resolve(dir string) (Settings, error) {
	path, err := Find(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return Load(path)
}
