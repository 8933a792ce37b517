package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/application/commands"
	"arbor/internal/domain"
)

var (
	createBranch bool
	createIndex  int
)

var createCmd = &cobra.Command{
	Use:   "create <parent-id> <name>",
	Short: "Create a new leaf or branch",
	Long: `Create a new node under a branch. Use "-" as the parent to create a
top-level node.

The name must not be used by a sibling already.

Examples:
  arbor-cli create docs "guide.md"
  arbor-cli create - "src" --branch
  arbor-cli create docs "intro.md" --index 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parentID := args[0]
		if parentID == "-" {
			parentID = ""
		}
		kind := domain.KindLeaf
		if createBranch {
			kind = domain.KindBranch
		}

		createCmd := commands.NewCreateCommand(GetTree(), GetStore(), parentID, args[1], kind)
		createCmd.Index = createIndex
		result, err := createCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	createCmd.Flags().BoolVarP(&createBranch, "branch", "b", false, "create a branch (folder) instead of a leaf")
	createCmd.Flags().IntVar(&createIndex, "index", -1, "position among the parent's children (default: append)")
	rootCmd.AddCommand(createCmd)
}
