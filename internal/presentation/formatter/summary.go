package formatter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/penwyp/go-usage-ledger/internal/util"
)

// SummaryFormatter renders a plain-text rollup of the whole report.
type SummaryFormatter struct {
	out io.Writer
}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{out: os.Stdout}
}

func (f *SummaryFormatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *SummaryFormatter) Format(rows []Row) error {
	var totalInput, totalOutput, totalCacheCreate, totalCacheRead, totalTokens int
	var totalCost float64
	modelStats := make(map[string]*ModelDetail)

	for _, row := range rows {
		totalInput += row.InputTokens
		totalOutput += row.OutputTokens
		totalCacheCreate += row.CacheCreation
		totalCacheRead += row.CacheRead
		totalTokens += row.TotalTokens
		totalCost += row.Cost

		for _, detail := range row.ModelDetails {
			stat, ok := modelStats[detail.Model]
			if !ok {
				stat = &ModelDetail{Model: detail.Model}
				modelStats[detail.Model] = stat
			}
			stat.InputTokens += detail.InputTokens
			stat.OutputTokens += detail.OutputTokens
			stat.CacheCreation += detail.CacheCreation
			stat.CacheRead += detail.CacheRead
			stat.TotalTokens += detail.TotalTokens
			stat.Cost += detail.Cost
		}
	}

	fmt.Fprintln(f.out, strings.Repeat("=", 60))
	fmt.Fprintln(f.out, "Usage Summary Report")
	fmt.Fprintln(f.out, strings.Repeat("=", 60))
	fmt.Fprintln(f.out)

	if len(rows) == 0 {
		fmt.Fprintln(f.out, "No data to summarize")
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, strings.Repeat("=", 60))
		return nil
	}

	firstKey := rows[0].Key
	lastKey := rows[len(rows)-1].Key
	if firstKey == lastKey {
		fmt.Fprintf(f.out, "Range: %s\n", firstKey)
	} else {
		fmt.Fprintf(f.out, "Range: %s to %s\n", firstKey, lastKey)
	}
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "Token Breakdown:")
	fmt.Fprintf(f.out, "  Input: %s\n", formatNumber(totalInput))
	fmt.Fprintf(f.out, "  Output: %s\n", formatNumber(totalOutput))
	fmt.Fprintf(f.out, "  Cache Creation: %s\n", formatNumber(totalCacheCreate))
	fmt.Fprintf(f.out, "  Cache Read: %s\n", formatNumber(totalCacheRead))
	fmt.Fprintf(f.out, "  Total Tokens: %s\n", formatNumber(totalTokens))
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "Cost Breakdown:")
	fmt.Fprintf(f.out, "  Total Cost: %s USD\n", util.FormatCurrency(totalCost))
	fmt.Fprintln(f.out)

	if len(modelStats) > 0 {
		fmt.Fprintln(f.out, "Model Usage:")
		fmt.Fprintln(f.out, strings.Repeat("-", 60))

		var models []string
		for m := range modelStats {
			models = append(models, m)
		}
		sort.Strings(models)

		for _, m := range models {
			stat := modelStats[m]
			fmt.Fprintf(f.out, "\n%s:\n", m)
			fmt.Fprintf(f.out, "  Input Tokens:         %s\n", formatNumber(stat.InputTokens))
			fmt.Fprintf(f.out, "  Output Tokens:        %s\n", formatNumber(stat.OutputTokens))
			fmt.Fprintf(f.out, "  Cache Creation:       %s\n", formatNumber(stat.CacheCreation))
			fmt.Fprintf(f.out, "  Cache Read:           %s\n", formatNumber(stat.CacheRead))
			fmt.Fprintf(f.out, "  Total Tokens:         %s\n", formatNumber(stat.TotalTokens))
			fmt.Fprintf(f.out, "  Cost:                 %s USD\n", util.FormatCurrency(stat.Cost))
		}
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, strings.Repeat("=", 60))

	return nil
}
