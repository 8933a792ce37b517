package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/application/commands"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search the tree",
	Long: `Search every node by its path of names.

Results are ranked by relevance using fuzzy matching.

Examples:
  arbor-cli find guide
  arbor-cli find dapi --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		findCmd := commands.NewFindCommand(GetTree(), args[0])
		findCmd.Limit = findLimit
		results, err := findCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("[%s] %s  %s\n", r.Node.Kind(), r.Path, r.Node.ID())
		}
		return nil
	},
}

func init() {
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 20, "maximum number of results (0 = all)")
	rootCmd.AddCommand(findCmd)
}
