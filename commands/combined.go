package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/core/unified"
	"github.com/penwyp/go-usage-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

var (
	combinedGroupBy string
	combinedSources []string

	combinedCmd = &cobra.Command{
		Use:   "combined",
		Short: "Report usage across tools in one view",
		Long: `combined reads the logs of every supported tool, keeps each tool's own
token accounting intact, and merges the results into a single report. Token
totals are never summed across tools; only costs are.`,
		RunE: runCombined,
	}
)

func init() {
	combinedCmd.Flags().StringVar(&combinedGroupBy, "group-by", model.GroupByDay,
		"Group by field (day, week, month)")
	combinedCmd.Flags().StringSliceVar(&combinedSources, "sources", nil,
		"Sources to include (default: claude, codex)")

	rootCmd.AddCommand(combinedCmd)
}

func runCombined(cmd *cobra.Command, args []string) error {
	sources := combinedSources
	if len(sources) == 0 {
		sources = []string{model.SourceClaude, model.SourceCodex}
	}

	series := make([][]model.UnifiedUsage, 0, len(sources))
	for _, src := range sources {
		source = src
		run, err := executePipeline()
		if err != nil {
			return err
		}
		rows, err := run.Unified(combinedGroupBy)
		if err != nil {
			return err
		}
		util.LogDebugf("Source %s contributed %d rows", src, len(rows))
		series = append(series, rows)
	}

	merged := unified.Combine(series...)

	switch outputFormat {
	case "json":
		return formatter.NewJSONFormatter().FormatValue(merged)
	case "table", "summary":
		return formatter.NewCombinedFormatter().Format(merged)
	}
	return fmt.Errorf("unknown output format for combined: %s", outputFormat)
}
