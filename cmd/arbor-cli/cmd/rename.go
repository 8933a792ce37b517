package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/application/commands"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <new-name>",
	Short: "Rename a node",
	Long: `Rename a node. Empty names and names already used by a sibling are
rejected and nothing changes.

Examples:
  arbor-cli rename docs/guide.md "handbook.md"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		renameCmd := commands.NewRenameCommand(GetTree(), GetStore(), args[0], args[1])
		result, err := renameCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
