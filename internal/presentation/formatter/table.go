package formatter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/penwyp/go-usage-ledger/internal/presentation/display"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

type TableFormatter struct {
	headers     []string
	withProject bool
	out         io.Writer
}

// NewTableFormatter creates a table formatter whose first column is labeled
// for the grouping in effect. withProject adds a Project column for
// composite date x project reports.
func NewTableFormatter(keyHeader string, withProject bool) *TableFormatter {
	headers := []string{keyHeader}
	if withProject {
		headers = append(headers, "Project")
	}
	headers = append(headers,
		"Models", "Input", "Output",
		"Cache Create", "Cache Read", "Total Tokens", "Cost (USD)",
	)
	return &TableFormatter{
		headers:     headers,
		withProject: withProject,
		out:         os.Stdout,
	}
}

// SetOutput redirects the rendered table, mainly for tests.
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.out = w
}

func (f *TableFormatter) Format(rows []Row) error {
	widths := f.calculateColumnWidths(rows)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")

	for i, row := range rows {
		f.printRow(f.rowValues(row), widths)

		if row.ShowBreakdown && len(row.ModelDetails) > 0 {
			for _, detail := range sortedDetails(row.ModelDetails) {
				f.printRow(f.breakdownValues(detail), widths)
			}
			if i < len(rows)-1 {
				f.printBorder(widths, "middle")
			}
		}
	}

	f.printBorder(widths, "middle")
	f.printRow(f.totalValues(rows), widths)
	f.printBorder(widths, "bottom")

	return nil
}

// rowValues renders one bucket as table cells.
func (f *TableFormatter) rowValues(row Row) []string {
	var modelStr string
	if row.ShowBreakdown && len(row.ModelDetails) > 0 {
		modelStr = "ALL"
	} else {
		simplified := make([]string, len(row.Models))
		for i, m := range row.Models {
			simplified[i] = util.SimplifyModelName(m)
		}
		modelStr = strings.Join(util.SortModels(simplified), ", ")
	}

	values := []string{row.Key}
	if f.withProject {
		values = append(values, row.Project)
	}
	return append(values,
		modelStr,
		formatNumber(row.InputTokens),
		formatNumber(row.OutputTokens),
		formatNumber(row.CacheCreation),
		formatNumber(row.CacheRead),
		formatNumber(row.TotalTokens),
		formatCost(row.Cost),
	)
}

func (f *TableFormatter) breakdownValues(detail ModelDetail) []string {
	values := []string{""}
	if f.withProject {
		values = append(values, "")
	}
	return append(values,
		"└ "+util.SimplifyModelName(detail.Model),
		formatNumber(detail.InputTokens),
		formatNumber(detail.OutputTokens),
		formatNumber(detail.CacheCreation),
		formatNumber(detail.CacheRead),
		formatNumber(detail.TotalTokens),
		formatCost(detail.Cost),
	)
}

func (f *TableFormatter) totalValues(rows []Row) []string {
	var input, output, cacheCreate, cacheRead, tokens int
	var cost float64
	for _, row := range rows {
		input += row.InputTokens
		output += row.OutputTokens
		cacheCreate += row.CacheCreation
		cacheRead += row.CacheRead
		tokens += row.TotalTokens
		cost += row.Cost
	}

	values := []string{"Total"}
	if f.withProject {
		values = append(values, "")
	}
	return append(values,
		"",
		formatNumber(input),
		formatNumber(output),
		formatNumber(cacheCreate),
		formatNumber(cacheRead),
		formatNumber(tokens),
		formatCost(cost),
	)
}

// calculateColumnWidths sizes each column to its widest cell.
func (f *TableFormatter) calculateColumnWidths(rows []Row) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}

	grow := func(values []string) {
		for i, value := range values {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for _, row := range rows {
		grow(f.rowValues(row))
		if row.ShowBreakdown {
			for _, detail := range row.ModelDetails {
				grow(f.breakdownValues(detail))
			}
		}
	}
	grow(f.totalValues(rows))

	for i := range widths {
		if widths[i] < 8 {
			widths[i] = 8
		}
	}

	// When the table overflows the terminal, the models column gives way
	// first; its cells get truncated at render time.
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	if max := display.MaxWidth(); total > max {
		modelsCol := 1
		if f.withProject {
			modelsCol = 2
		}
		if shrunk := widths[modelsCol] - (total - max); shrunk >= 8 {
			widths[modelsCol] = shrunk
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom).
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Fprint(f.out, left)
	for i, width := range widths {
		fmt.Fprint(f.out, strings.Repeat(separator, width+2))
		if i < len(widths)-1 {
			fmt.Fprint(f.out, middle)
		}
	}
	fmt.Fprintln(f.out, right)
}

// printRow prints a data row. Text columns are left-aligned, numeric columns
// right-aligned.
func (f *TableFormatter) printRow(values []string, widths []int) {
	textCols := 2 // key and models
	if f.withProject {
		textCols = 3
	}

	fmt.Fprint(f.out, "│")
	for i, value := range values {
		value = display.Truncate(value, widths[i])
		if i < textCols {
			fmt.Fprintf(f.out, " %s │", util.PadDisplay(value, widths[i], false))
		} else {
			fmt.Fprintf(f.out, " %s │", util.PadDisplay(value, widths[i], true))
		}
	}
	fmt.Fprintln(f.out)
}

// sortedDetails orders breakdown rows by model family.
func sortedDetails(details []ModelDetail) []ModelDetail {
	sorted := make([]ModelDetail, len(details))
	copy(sorted, details)
	sort.Slice(sorted, func(i, j int) bool {
		return util.GetModelOrder(sorted[i].Model) < util.GetModelOrder(sorted[j].Model)
	})
	return sorted
}

func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}

	return string(result)
}

func formatCost(cost float64) string {
	return fmt.Sprintf("$%.2f", cost)
}
