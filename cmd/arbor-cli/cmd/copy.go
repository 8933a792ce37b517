package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/application/commands"
	"arbor/internal/domain"
)

var copyPosition string

var copyCmd = &cobra.Command{
	Use:   "copy <source-id>... <target-id>",
	Short: "Copy nodes with their subtrees",
	Long: `Deep-copy nodes relative to a target. Copies get fresh ids; a copy whose
name is already used by a sibling gets a " copy" suffix.

Examples:
  arbor-cli copy docs/guide.md src
  arbor-cli copy docs archive --position inside`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := domain.ParsePosition(copyPosition)
		if err != nil {
			return err
		}
		sources, targetID := args[:len(args)-1], args[len(args)-1]

		copyCmd := commands.NewDuplicateCommand(GetTree(), GetStore(), sources, targetID, pos)
		result, err := copyCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	copyCmd.Flags().StringVarP(&copyPosition, "position", "p", "inside", "before, after or inside the target")
	rootCmd.AddCommand(copyCmd)
}
