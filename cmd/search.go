package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rogersnm/smoothies/internal/markdown"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Find smoothies by name, tag, or ingredient",
	Long: `Find smoothies whose name, tags, or ingredient names contain every word
of the query. Matching ignores case, spaces, and punctuation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := cache.Filter(strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), markdown.RenderSmoothieTable(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
