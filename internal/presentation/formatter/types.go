package formatter

import (
	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

// Row is one renderable report line, flattened from a usage bucket.
type Row struct {
	Key           string
	Project       string
	Models        []string
	InputTokens   int
	OutputTokens  int
	CacheCreation int
	CacheRead     int
	TotalTokens   int
	Cost          float64
	ShowBreakdown bool
	ModelDetails  []ModelDetail
}

type ModelDetail struct {
	Model         string
	InputTokens   int
	OutputTokens  int
	CacheCreation int
	CacheRead     int
	TotalTokens   int
	Cost          float64
}

// FromBuckets flattens aggregated buckets into renderable rows.
func FromBuckets(buckets []model.BucketUsage, breakdown bool) []Row {
	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		row := Row{
			Key:           b.Key,
			Project:       b.Project,
			Models:        b.ModelsUsed,
			InputTokens:   b.InputTokens,
			OutputTokens:  b.OutputTokens,
			CacheCreation: b.CacheCreationTokens,
			CacheRead:     b.CacheReadTokens,
			TotalTokens:   b.TotalTokens(),
			Cost:          b.Cost,
			ShowBreakdown: breakdown,
		}
		for _, d := range b.ModelBreakdowns {
			row.ModelDetails = append(row.ModelDetails, ModelDetail{
				Model:         d.Model,
				InputTokens:   d.InputTokens,
				OutputTokens:  d.OutputTokens,
				CacheCreation: d.CacheCreationTokens,
				CacheRead:     d.CacheReadTokens,
				TotalTokens:   d.TotalTokens(),
				Cost:          d.Cost,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// KeyHeader is the first column label for a grouping.
func KeyHeader(groupBy string) string {
	switch groupBy {
	case model.GroupByWeek:
		return "Week"
	case model.GroupByMonth:
		return "Month"
	case model.GroupBySession:
		return "Session"
	case model.GroupByProject:
		return "Project"
	}
	return "Date"
}
