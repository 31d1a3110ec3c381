package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-usage-ledger/internal/util"
)

type CSVFormatter struct {
	keyHeader   string
	withProject bool
	out         io.Writer
}

func NewCSVFormatter(keyHeader string, withProject bool) *CSVFormatter {
	return &CSVFormatter{keyHeader: keyHeader, withProject: withProject, out: os.Stdout}
}

func (f *CSVFormatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *CSVFormatter) Format(rows []Row) error {
	w := csv.NewWriter(f.out)
	defer w.Flush()

	headers := []string{f.keyHeader}
	if f.withProject {
		headers = append(headers, "Project")
	}
	headers = append(headers,
		"Models", "Input", "Output",
		"Cache Create", "Cache Read", "Total Tokens", "Cost (USD)",
	)
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		simplified := make([]string, len(row.Models))
		for i, m := range row.Models {
			simplified[i] = util.SimplifyModelName(m)
		}

		record := []string{row.Key}
		if f.withProject {
			record = append(record, row.Project)
		}
		record = append(record,
			strings.Join(util.SortModels(simplified), ", "),
			fmt.Sprintf("%d", row.InputTokens),
			fmt.Sprintf("%d", row.OutputTokens),
			fmt.Sprintf("%d", row.CacheCreation),
			fmt.Sprintf("%d", row.CacheRead),
			fmt.Sprintf("%d", row.TotalTokens),
			fmt.Sprintf("%.2f", row.Cost),
		)
		if err := w.Write(record); err != nil {
			return err
		}

		if !row.ShowBreakdown {
			continue
		}
		for _, detail := range row.ModelDetails {
			record := []string{"  └─ " + row.Key}
			if f.withProject {
				record = append(record, row.Project)
			}
			record = append(record,
				util.SimplifyModelName(detail.Model),
				fmt.Sprintf("%d", detail.InputTokens),
				fmt.Sprintf("%d", detail.OutputTokens),
				fmt.Sprintf("%d", detail.CacheCreation),
				fmt.Sprintf("%d", detail.CacheRead),
				fmt.Sprintf("%d", detail.TotalTokens),
				fmt.Sprintf("%.2f", detail.Cost),
			)
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	return nil
}
