package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-usage-ledger/internal/core/blocks"
	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// BlocksFormatter renders billing blocks as a plain-text timeline, with burn
// rate and projection lines for the active block.
type BlocksFormatter struct {
	location   *time.Location
	tokenLimit int
	out        io.Writer
}

func NewBlocksFormatter(location *time.Location, tokenLimit int) *BlocksFormatter {
	if location == nil {
		location = time.Local
	}
	return &BlocksFormatter{location: location, tokenLimit: tokenLimit, out: os.Stdout}
}

func (f *BlocksFormatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *BlocksFormatter) Format(all []model.BillingBlock, now time.Time) error {
	if len(all) == 0 {
		fmt.Fprintln(f.out, "No billing blocks in range")
		return nil
	}

	fmt.Fprintln(f.out, strings.Repeat("=", 72))
	fmt.Fprintln(f.out, "Billing Blocks")
	fmt.Fprintln(f.out, strings.Repeat("=", 72))

	for _, block := range all {
		if block.IsGap {
			f.printGap(block)
			continue
		}
		f.printBlock(block, now)
	}

	return nil
}

func (f *BlocksFormatter) printGap(block model.BillingBlock) {
	idle := block.EndTime.Sub(block.StartTime)
	fmt.Fprintf(f.out, "\n%s - %s  (idle %s)\n",
		block.StartTime.In(f.location).Format("2006-01-02 15:04"),
		block.EndTime.In(f.location).Format("2006-01-02 15:04"),
		util.FormatDuration(idle))
}

func (f *BlocksFormatter) printBlock(block model.BillingBlock, now time.Time) {
	status := "closed"
	if block.IsActive {
		status = "ACTIVE"
	}

	fmt.Fprintf(f.out, "\n%s - %s  [%s]\n",
		block.StartTime.In(f.location).Format("2006-01-02 15:04"),
		block.EndTime.In(f.location).Format("2006-01-02 15:04"),
		status)
	fmt.Fprintf(f.out, "  Entries: %d   Tokens: %s   Cost: %s\n",
		len(block.Entries),
		util.FormatNumber(block.TokenCounts.Total()),
		util.FormatCurrency(block.CostUSD))
	if len(block.Models) > 0 {
		simplified := make([]string, len(block.Models))
		for i, m := range block.Models {
			simplified[i] = util.SimplifyModelName(m)
		}
		fmt.Fprintf(f.out, "  Models: %s\n", strings.Join(util.SortModels(simplified), ", "))
	}

	if !block.IsActive {
		return
	}

	if rate := blocks.CalculateBurnRate(block, now); rate != nil {
		fmt.Fprintf(f.out, "  Burn rate: %s   Cost rate: %s/h\n",
			util.FormatBurnRate(rate.TokensPerMinute),
			util.FormatCurrency(rate.CostPerHour))
	}
	if proj := blocks.ProjectUsage(block, now); proj != nil {
		fmt.Fprintf(f.out, "  Projected: %s tokens, %s by %s\n",
			util.FormatNumber(proj.TotalTokens),
			util.FormatCurrency(proj.TotalCost),
			block.EndTime.In(f.location).Format("15:04"))
	}
	if f.tokenLimit > 0 {
		if limit := blocks.CheckTokenLimit(block, f.tokenLimit, now); limit != nil {
			fmt.Fprintf(f.out, "  Limit: %.1f%% of %s (%s)\n",
				limit.PercentUsed,
				util.FormatNumber(limit.Limit),
				limit.Status)
		}
	}
}
