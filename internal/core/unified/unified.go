// Package unified maps each tool's native aggregates into one shared shape
// and combines them. Cache-token semantics differ across tools, so each
// tool's own total-token formula is preserved verbatim; merging recomputed
// totals would silently corrupt historical numbers. Cross-tool grand totals
// therefore sum only cost.
package unified

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

// TotalsFormula computes a tool's own token total from its stats.
type TotalsFormula func(model.TokenStats) int

// Adapter describes one tool's token-accounting convention.
type Adapter struct {
	Source string
	Totals TotalsFormula
}

// additiveTotals is the convention where cache tokens add to input tokens.
func additiveTotals(s model.TokenStats) int {
	return s.InputTokens + s.OutputTokens + s.CacheCreationTokens + s.CacheReadTokens
}

// subsetTotals is the convention where cache reads are already a subset of
// input tokens, so only input and output count.
func subsetTotals(s model.TokenStats) int {
	return s.InputTokens + s.OutputTokens
}

var adapters = map[string]Adapter{
	model.SourceClaude: {Source: model.SourceClaude, Totals: additiveTotals},
	model.SourceCodex:  {Source: model.SourceCodex, Totals: subsetTotals},
}

// AdapterFor returns the adapter for a tool source.
func AdapterFor(source string) (Adapter, error) {
	adapter, ok := adapters[source]
	if !ok {
		return Adapter{}, fmt.Errorf("unknown tool source: %s", source)
	}
	return adapter, nil
}

// Normalize maps one tool's bucket aggregates into the unified shape,
// carrying the tool's own totals formula.
func Normalize(source string, buckets []model.BucketUsage) ([]model.UnifiedUsage, error) {
	adapter, err := AdapterFor(source)
	if err != nil {
		return nil, err
	}

	return lo.Map(buckets, func(b model.BucketUsage, _ int) model.UnifiedUsage {
		return model.UnifiedUsage{
			Source:              adapter.Source,
			Key:                 b.Key,
			InputTokens:         b.InputTokens,
			OutputTokens:        b.OutputTokens,
			CacheCreationTokens: b.CacheCreationTokens,
			CacheReadTokens:     b.CacheReadTokens,
			TotalTokens:         adapter.Totals(b.TokenStats),
			CostUSD:             b.Cost,
			Models:              b.ModelsUsed,
		}
	}), nil
}

// sourceRank orders tools by fixed combine priority; unknown sources sort
// after all known ones.
func sourceRank(source string) int {
	for i, s := range model.SourcePriority {
		if s == source {
			return i
		}
	}
	return len(model.SourcePriority)
}

// Combine outer-unions per-tool series on (key, source), stable-sorted by
// key then fixed tool priority.
func Combine(series ...[]model.UnifiedUsage) []model.UnifiedUsage {
	var combined []model.UnifiedUsage
	for _, s := range series {
		combined = append(combined, s...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		if combined[i].Key != combined[j].Key {
			return combined[i].Key < combined[j].Key
		}
		return sourceRank(combined[i].Source) < sourceRank(combined[j].Source)
	})

	return combined
}

// CombinedTotal is the cross-tool grand total. Token fields are deliberately
// absent: with differing accounting conventions only cost can be summed.
type CombinedTotal struct {
	CostBySource map[string]float64 `json:"costBySource"`
	TotalCostUSD float64            `json:"totalCostUSD"`
}

// Totals sums cost per source and overall.
func Totals(combined []model.UnifiedUsage) CombinedTotal {
	total := CombinedTotal{CostBySource: make(map[string]float64)}
	for _, u := range combined {
		total.CostBySource[u.Source] += u.CostUSD
		total.TotalCostUSD += u.CostUSD
	}
	return total
}
