package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-usage-ledger/internal/core/blocks"
	"github.com/penwyp/go-usage-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

var (
	blockDurationHours int
	blockGapHours      int
	blockTokenLimit    int
	blockRecentOnly    bool
	blockActiveOnly    bool

	blocksCmd = &cobra.Command{
		Use:   "blocks",
		Short: "Report floating billing blocks with burn rate and projection",
		Long: `blocks groups usage into fixed-length billing blocks anchored to the
first activity of each block, inserts explicit gap markers for idle periods,
and reports burn rate and projected usage for the currently active block.`,
		RunE: runBlocks,
	}
)

func init() {
	blocksCmd.Flags().IntVar(&blockDurationHours, "duration-hours", 0,
		"Billing block length in hours (default 5)")
	blocksCmd.Flags().IntVar(&blockGapHours, "gap-hours", 0,
		"Idle hours before a gap marker is inserted (default: block length)")
	blocksCmd.Flags().IntVar(&blockTokenLimit, "token-limit", 0,
		"Token limit the active block's projection is checked against")
	blocksCmd.Flags().BoolVar(&blockRecentOnly, "recent", false,
		"Only show blocks from the last three days")
	blocksCmd.Flags().BoolVar(&blockActiveOnly, "active", false,
		"Only show the currently active block")

	rootCmd.AddCommand(blocksCmd)
}

func runBlocks(cmd *cobra.Command, args []string) error {
	run, err := executePipeline()
	if err != nil {
		return err
	}

	now := util.GetTimeProvider().Now()
	opts := blocks.Options{
		DurationHours: blockDurationHours,
		Now:           now,
	}
	if blockGapHours > 0 {
		opts.GapThreshold = time.Duration(blockGapHours) * time.Hour
	}

	all := run.Blocks(opts)
	if blockRecentOnly {
		all = blocks.FilterRecent(all, now)
	}
	if blockActiveOnly {
		filtered := all[:0]
		for _, b := range all {
			if b.IsActive {
				filtered = append(filtered, b)
			}
		}
		all = filtered
	}

	switch outputFormat {
	case "json":
		return formatter.NewJSONFormatter().FormatValue(all)
	case "table", "summary":
		return formatter.NewBlocksFormatter(run.Location, blockTokenLimit).Format(all, now)
	}
	return fmt.Errorf("unknown output format for blocks: %s", outputFormat)
}
