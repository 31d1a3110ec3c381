package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/core/pricing"
	"github.com/penwyp/go-usage-ledger/internal/pipeline"
	"github.com/penwyp/go-usage-ledger/internal/presentation/formatter"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

var (
	// Logging related
	debug bool

	// Data selection
	dataDirs []string
	source   string

	// Output related
	outputFormat string
	timezone     string

	// Filtering and grouping
	groupBy   string
	byProject bool
	breakdown bool
	since     string
	until     string
	weekStart string

	// Pricing related
	costMode           string
	pricingSource      string
	pricingOfflineMode bool

	rootCmd = &cobra.Command{
		Use:   "go-usage-ledger [flags]",
		Short: "Usage ledger for AI coding assistant logs",
		Long: `go-usage-ledger turns the JSONL usage logs written by AI coding
assistants into token and cost reports.

It scans the assistant's data directories, validates and deduplicates every
logged API call, resolves costs, and aggregates usage by day, week, month,
session or project.

Examples:
  go-usage-ledger                                  # Daily report with defaults
  go-usage-ledger --group-by month --breakdown     # Monthly report with model breakdown
  go-usage-ledger --group-by day --by-project      # Daily report split per project
  go-usage-ledger --since 2025-06-01 --until 2025-06-30
  go-usage-ledger --output json --mode calculate   # JSON output, always recompute costs
  go-usage-ledger blocks --token-limit 500000      # Billing blocks with a limit check
  go-usage-ledger windows                          # Quota window report
  go-usage-ledger combined                         # Cross-tool report`,
	}
)

const defaultLogFile = "~/.go-usage-ledger/logs/app.log"

func init() {
	rootCmd.RunE = runReport
	rootCmd.PersistentFlags().StringSliceVar(&dataDirs, "dir", nil,
		"Data directory override (repeatable)")
	rootCmd.PersistentFlags().StringVar(&source, "source", model.SourceClaude,
		"Log source (claude, codex)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for calendar bucketing (e.g., Asia/Shanghai, UTC)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.PersistentFlags().StringVar(&since, "since", "",
		"Start date, inclusive (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&until, "until", "",
		"End date, exclusive (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	rootCmd.PersistentFlags().StringVar(&costMode, "mode", "auto",
		"Cost mode (auto, calculate, display)")
	rootCmd.PersistentFlags().StringVar(&pricingSource, "pricing-source", "default",
		"Pricing source (default, litellm, or a JSON file path)")
	rootCmd.PersistentFlags().BoolVar(&pricingOfflineMode, "pricing-offline", false,
		"Use offline pricing mode")

	rootCmd.Flags().StringVar(&groupBy, "group-by", model.GroupByDay,
		"Group by field (day, week, month, session, project)")
	rootCmd.Flags().BoolVar(&byProject, "by-project", false,
		"Split date groupings per project")
	rootCmd.Flags().BoolVarP(&breakdown, "breakdown", "b", false,
		"Show per-model cost breakdown")
	rootCmd.Flags().StringVar(&weekStart, "week-start", "sunday",
		"First day of the week for weekly grouping")
}

func runReport(cmd *cobra.Command, args []string) error {
	run, err := executePipeline()
	if err != nil {
		return err
	}

	buckets, err := run.Buckets(groupBy, byProject)
	if err != nil {
		return err
	}
	rows := formatter.FromBuckets(buckets, breakdown)

	switch outputFormat {
	case "json":
		return formatter.NewJSONFormatter().Format(rows)
	case "csv":
		return formatter.NewCSVFormatter(formatter.KeyHeader(groupBy), byProject).Format(rows)
	case "summary":
		return formatter.NewSummaryFormatter().Format(rows)
	case "table":
		return formatter.NewTableFormatter(formatter.KeyHeader(groupBy), byProject).Format(rows)
	}
	return fmt.Errorf("unknown output format: %s", outputFormat)
}

// executePipeline applies the shared global flags and runs one ingestion
// pass. All subcommands report over its result.
func executePipeline() (*pipeline.Result, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)

	if err := util.InitializeTimeProvider(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	location := util.GetTimeProvider().Location()

	mode, err := pricing.ParseCostMode(costMode)
	if err != nil {
		return nil, err
	}
	firstDay, err := parseWeekday(weekStart)
	if err != nil {
		return nil, err
	}
	sinceTime, err := parseDate(since, location)
	if err != nil {
		return nil, err
	}
	untilTime, err := parseDate(until, location)
	if err != nil {
		return nil, err
	}
	if !untilTime.IsZero() {
		// --until is an inclusive date; the range bound is exclusive.
		untilTime = untilTime.AddDate(0, 0, 1)
	}

	dirs := make([]string, len(dataDirs))
	for i, dir := range dataDirs {
		dirs[i] = expandPath(dir)
	}

	cfg := pipeline.Config{
		Dirs:      dirs,
		Source:    source,
		Location:  location,
		WeekStart: firstDay,
		CostMode:  mode,
		Pricing: pricing.SourceConfig{
			PricingSource:      pricingSource,
			PricingOfflineMode: pricingOfflineMode,
		},
		Since:       sinceTime,
		Until:       untilTime,
		Concurrency: runtime.NumCPU(),
	}
	return pipeline.Run(rootCmd.Context(), cfg)
}

func parseDate(s string, location *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid week start: %s", s)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
