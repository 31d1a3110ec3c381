package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// WindowsFormatter renders monthly quota summaries and their windows.
type WindowsFormatter struct {
	location *time.Location
	out      io.Writer
}

func NewWindowsFormatter(location *time.Location) *WindowsFormatter {
	if location == nil {
		location = time.Local
	}
	return &WindowsFormatter{location: location, out: os.Stdout}
}

func (f *WindowsFormatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *WindowsFormatter) Format(summaries []model.MonthlyWindowSummary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(f.out, "No session windows in range")
		return nil
	}

	for i, summary := range summaries {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printSummary(summary)
	}
	return nil
}

func (f *WindowsFormatter) printSummary(summary model.MonthlyWindowSummary) {
	fmt.Fprintln(f.out, strings.Repeat("=", 72))
	fmt.Fprintf(f.out, "%s  -  %d/%d sessions used (%.1f%%), %d remaining\n",
		summary.Month,
		summary.TotalSessions, summary.SessionLimit,
		summary.UtilizationPercent,
		summary.RemainingSessions)
	fmt.Fprintln(f.out, strings.Repeat("=", 72))

	for _, w := range summary.Windows {
		fmt.Fprintf(f.out, "%s  %s - %s  messages: %d  conversations: %d  tokens: %s  cost: %s\n",
			w.Id,
			w.StartTime.In(f.location).Format("15:04"),
			w.EndTime.In(f.location).Format("15:04"),
			w.MessageCount,
			w.ConversationCount,
			util.FormatNumber(w.TotalTokens()),
			util.FormatCurrency(w.Cost))
	}

	if summary.CurrentSession.HasActiveSession {
		remaining := time.Duration(summary.CurrentSession.TimeRemainingMs) * time.Millisecond
		fmt.Fprintf(f.out, "\nActive session: %s remaining\n", util.FormatDuration(remaining))
	}
}
