package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbor/internal/adapters/storage"
	"arbor/internal/application/commands"
	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

var (
	target storage.Target
	store  ports.TreeStore
	tree   *domain.Tree
)

var rootCmd = &cobra.Command{
	Use:   "arbor-cli",
	Short: "CLI for editing trees of files and folders",
	Long: `arbor-cli edits a tree stored in an arbor database, a directory on disk,
or a YAML/JSON tree document.

Nodes are addressed by id. For directories and documents without explicit
ids, the id is the slash path of names from the root (e.g. docs/api/v1.md).
Run "arbor-cli tree --ids" to see them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Annotations["store"] == "none" {
			return nil
		}
		var err error
		store, err = storage.Open(target)
		if err != nil {
			return err
		}
		res, err := commands.NewLoadTreeCommand(store).Execute(context.Background())
		if err != nil {
			return err
		}
		tree = res.Tree
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	settings, err := config.Resolve("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		settings = config.Default()
	}
	target = storage.TargetFrom(settings)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&target.Database, "db", target.Database, "path to the arbor database (env ARBOR_DB)")
	flags.StringVarP(&target.Dir, "dir", "d", "", "edit a directory instead of the database")
	flags.StringVarP(&target.File, "file", "f", "", "edit a YAML or JSON tree document instead of the database")
	flags.BoolVar(&target.ShowHidden, "hidden", target.ShowHidden, "include dot files when reading a directory")
}

// GetTree returns the loaded tree
func GetTree() *domain.Tree {
	return tree
}

// GetStore returns the store the tree was loaded from
func GetStore() ports.TreeStore {
	return store
}
