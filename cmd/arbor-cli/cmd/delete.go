package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete nodes",
	Long: `Delete one or more nodes together with everything below them.

Warning: This operation cannot be undone. For a directory, the files
are removed from disk.

Examples:
  arbor-cli delete docs/guide.md
  arbor-cli delete docs src`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleteCmd := commands.NewDeleteCommand(GetTree(), GetStore(), args)
		result, err := deleteCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
