// Package storage picks the TreeStore backing a tree from command-line
// targets: a tree document, a directory, or the SQLite database.
package storage

import (
	"fmt"

	"arbor/internal/adapters/filesystem"
	"arbor/internal/adapters/sqlite"
	"arbor/internal/adapters/treefile"
	"arbor/internal/config"
	"arbor/internal/ports"
)

// Target says where a tree lives. File wins over Dir, Dir over Database.
type Target struct {
	Database   string
	Dir        string
	File       string
	ShowHidden bool
}

// TargetFrom fills a target from settings; flags set afterwards override it
func TargetFrom(s config.Settings) Target {
	return Target{Database: s.Database, ShowHidden: s.ShowHidden}
}

// Describe names the target for titles and messages
func (t Target) Describe() string {
	switch {
	case t.File != "":
		return t.File
	case t.Dir != "":
		return t.Dir
	default:
		return t.Database
	}
}

// Open returns the store for t
func Open(t Target) (ports.TreeStore, error) {
	switch {
	case t.File != "":
		s, err := treefile.NewStore(t.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open tree file: %w", err)
		}
		return s, nil
	case t.Dir != "":
		return filesystem.NewRepository(t.Dir, t.ShowHidden), nil
	case t.Database != "":
		s, err := sqlite.Open(t.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("no tree given: set a database, a directory or a tree file")
	}
}
