package cli

import (
	"fmt"

	"codeappraise/internal/repostats"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [dir]",
	Short: "Show file and line counts without calling the model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		files, err := repostats.LoadDir(root)
		if err != nil {
			return fmt.Errorf("load %s: %w", root, err)
		}
		stats := repostats.Collect(files)

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"Files", "Lines", "Languages"})
		_ = table.Bulk([][]string{{
			fmt.Sprintf("%d", stats.FileCount),
			fmt.Sprintf("%d", stats.TotalLines),
			fmt.Sprintf("%v", stats.Languages),
		}})
		return table.Render()
	},
}
