package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"arbor/internal/domain"
)

var (
	treeShowIDs bool
	treeDepth   int
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the tree structure",
	Long: `Display every node of the tree, one per line, indented by depth.

Examples:
  arbor-cli tree
  arbor-cli tree --ids --depth 2
  arbor-cli --dir ~/notes tree`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if GetTree().Len() == 0 {
			fmt.Println("Empty tree")
			return nil
		}
		printTree(GetTree().Roots())
		return nil
	},
}

func printTree(level []*domain.Node) {
	for _, n := range level {
		if treeDepth > 0 && n.Depth() >= treeDepth {
			return
		}

		indent := strings.Repeat("  ", n.Depth())
		name := n.Name()
		if n.IsBranch() {
			name += "/"
		}
		if treeShowIDs {
			fmt.Printf("%s%s  [%s]\n", indent, name, n.ID())
		} else {
			fmt.Printf("%s%s\n", indent, name)
		}

		printTree(n.Children())
	}
}

func init() {
	treeCmd.Flags().BoolVar(&treeShowIDs, "ids", false, "show node ids")
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, "only show nodes above this depth (0 = all)")
	rootCmd.AddCommand(treeCmd)
}
