package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-usage-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

var (
	windowHours        int
	monthlyWindowLimit int

	windowsCmd = &cobra.Command{
		Use:   "windows",
		Short: "Report calendar-aligned quota windows per month",
		Long: `windows groups usage into fixed-length windows aligned to the wall
clock and reports monthly consumption against a window quota, the way
subscription plans meter session starts.`,
		RunE: runWindows,
	}
)

func init() {
	windowsCmd.Flags().IntVar(&windowHours, "window-hours", 0,
		"Window length in hours (default 5)")
	windowsCmd.Flags().IntVar(&monthlyWindowLimit, "monthly-limit", 0,
		"Monthly window quota (default 50)")

	rootCmd.AddCommand(windowsCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
	run, err := executePipeline()
	if err != nil {
		return err
	}

	now := util.GetTimeProvider().Now()
	summaries := run.MonthlySummaries(windowHours, monthlyWindowLimit, now)

	switch outputFormat {
	case "json":
		return formatter.NewJSONFormatter().FormatValue(summaries)
	case "table", "summary":
		return formatter.NewWindowsFormatter(run.Location).Format(summaries)
	}
	return fmt.Errorf("unknown output format for windows: %s", outputFormat)
}
