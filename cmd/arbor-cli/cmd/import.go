package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"arbor/internal/adapters/filesystem"
	"arbor/internal/adapters/sqlite"
	"arbor/internal/adapters/treefile"
	"arbor/internal/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <directory|tree-file>",
	Short: "Replace the database tree with a directory or document",
	Long: `Replace everything in the arbor database with the structure of a
directory or a YAML/JSON tree document. Only names and structure are
stored; file contents stay where they are.

Warning: the previous database tree is discarded.

Examples:
  arbor-cli import ~/notes
  arbor-cli import tree.yaml
  arbor-cli --db ./work.db import tree.json`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"store": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		records, err := readImport(args[0])
		if err != nil {
			return err
		}

		db, err := sqlite.Open(target.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Replace(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", args[0], err)
		}
		fmt.Printf("Imported %d nodes into %s (replaced %d) in %s\n",
			stats.NodesAdded, db.Path(), stats.NodesDeleted, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

func readImport(path string) ([]domain.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return filesystem.LoadDirectory(path, target.ShowHidden)
	}
	return treefile.ReadFile(path)
}

func init() {
	rootCmd.AddCommand(importCmd)
}
