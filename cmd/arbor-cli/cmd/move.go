package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/application/commands"
	"arbor/internal/domain"
)

var movePosition string

var moveCmd = &cobra.Command{
	Use:   "move <source-id>... <target-id>",
	Short: "Move nodes before, after or inside another node",
	Long: `Move one or more nodes relative to a target. Several sources keep their
order and end up next to each other.

Rules:
- "inside" needs a branch target and appends to its children
- A node cannot be moved next to or into itself or one of its descendants

Examples:
  arbor-cli move docs/guide.md src                     # into src
  arbor-cli move README.md docs --position before      # before docs
  arbor-cli move a.md b.md docs/api --position after   # both after docs/api`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := domain.ParsePosition(movePosition)
		if err != nil {
			return err
		}
		sources, targetID := args[:len(args)-1], args[len(args)-1]

		moveCmd := commands.NewMoveCommand(GetTree(), GetStore(), sources, targetID, pos)
		result, err := moveCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVarP(&movePosition, "position", "p", "inside", "before, after or inside the target")
	rootCmd.AddCommand(moveCmd)
}
