package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbor/internal/adapters/treefile"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the tree as a YAML or JSON document",
	Long: `Write the tree as a nested YAML or JSON document, either to stdout or to
a file. With --output the format follows the file extension.

Examples:
  arbor-cli export
  arbor-cli export --format json
  arbor-cli --dir ~/notes export -o notes.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOutput != "" {
			if err := treefile.WriteFile(exportOutput, GetTree()); err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			fmt.Printf("Exported %d nodes to %s\n", GetTree().Len(), exportOutput)
			return nil
		}

		format, err := treefile.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		return treefile.Encode(os.Stdout, GetTree(), format)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "yaml or json when writing to stdout")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
