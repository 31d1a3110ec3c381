package formatter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/core/unified"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// CombinedFormatter renders the cross-tool report. Token totals are shown
// per-row under each source's own formula; the grand total line carries cost
// only, since token formulas differ between sources.
type CombinedFormatter struct {
	out io.Writer
}

func NewCombinedFormatter() *CombinedFormatter {
	return &CombinedFormatter{out: os.Stdout}
}

func (f *CombinedFormatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *CombinedFormatter) Format(rows []model.UnifiedUsage) error {
	headers := []string{"Key", "Source", "Input", "Output", "Cache Create", "Cache Read", "Total Tokens", "Cost (USD)"}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{
			row.Key,
			row.Source,
			formatNumber(row.InputTokens),
			formatNumber(row.OutputTokens),
			formatNumber(row.CacheCreationTokens),
			formatNumber(row.CacheReadTokens),
			formatNumber(row.TotalTokens),
			formatCost(row.CostUSD),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range cells {
		for i, cell := range row {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	printRule := func() {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("-", w+2)
		}
		fmt.Fprintf(f.out, "+%s+\n", strings.Join(parts, "+"))
	}
	printCells := func(row []string) {
		fmt.Fprint(f.out, "|")
		for i, cell := range row {
			alignRight := i >= 2
			fmt.Fprintf(f.out, " %s |", util.PadDisplay(cell, widths[i], alignRight))
		}
		fmt.Fprintln(f.out)
	}

	printRule()
	printCells(headers)
	printRule()
	for _, row := range cells {
		printCells(row)
	}
	printRule()

	total := unified.Totals(rows)
	sources := lo.Keys(total.CostBySource)
	sort.Strings(sources)
	for _, source := range sources {
		fmt.Fprintf(f.out, "%s cost: %s\n", source, util.FormatCurrency(total.CostBySource[source]))
	}
	fmt.Fprintf(f.out, "Total cost: %s\n", util.FormatCurrency(total.TotalCostUSD))
	return nil
}
