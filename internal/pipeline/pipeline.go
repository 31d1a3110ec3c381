// Package pipeline drives one end-to-end ledger run: locate usage files,
// order them chronologically, parse and validate, deduplicate, resolve
// costs, and hand the priced event stream to the report builders.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/penwyp/go-usage-ledger/internal/core/blocks"
	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/core/pricing"
	"github.com/penwyp/go-usage-ledger/internal/core/unified"
	"github.com/penwyp/go-usage-ledger/internal/core/window"
	"github.com/penwyp/go-usage-ledger/internal/data/aggregator"
	"github.com/penwyp/go-usage-ledger/internal/data/locator"
	"github.com/penwyp/go-usage-ledger/internal/data/parser"
	"github.com/penwyp/go-usage-ledger/internal/data/sorter"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// Config describes one run.
type Config struct {
	// Dirs overrides root discovery when non-empty.
	Dirs []string
	// Source names the tool whose logs are read, model.SourceClaude by
	// default. It selects the directory layout and the totals formula.
	Source string
	// Location is the timezone all calendar bucketing happens in.
	Location *time.Location
	// WeekStart is the first day used for weekly bucket keys.
	WeekStart time.Weekday
	// CostMode controls cost resolution for every event of the run.
	CostMode pricing.CostMode
	// Pricing selects the pricing backend.
	Pricing pricing.SourceConfig
	// Since and Until bound the report range; zero values are open.
	Since time.Time
	Until time.Time
	// Concurrency caps parallel file work. Zero means a sensible default.
	Concurrency int
}

// Result is the priced, deduplicated event stream of one run, ready for any
// of the report builders. The pricing source is already released by the time
// a Result is returned; costs live on the events themselves.
type Result struct {
	Source    string
	Events    []model.UsageEvent
	Location  *time.Location
	WeekStart time.Weekday

	FilesScanned int
	Collapsed    int
}

func layoutFor(source string) (locator.Layout, error) {
	switch source {
	case "", model.SourceClaude:
		return locator.ClaudeLayout, nil
	case model.SourceCodex:
		return locator.CodexLayout, nil
	}
	return locator.Layout{}, fmt.Errorf("unknown source: %s", source)
}

// Run executes the ingestion pipeline. The pricing source is held only for
// the duration of the call and released on every exit path.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Source == "" {
		cfg.Source = model.SourceClaude
	}
	if cfg.Location == nil {
		cfg.Location = util.GetTimeProvider().Location()
	}

	layout, err := layoutFor(cfg.Source)
	if err != nil {
		return nil, err
	}

	source, err := pricing.Acquire(ctx, cfg.Pricing)
	if err != nil {
		return nil, err
	}
	defer source.Close()
	resolver := pricing.NewResolver(cfg.CostMode, source)

	refs, err := locator.New(cfg.Dirs, layout).Locate()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Source:       cfg.Source,
		Location:     cfg.Location,
		WeekStart:    cfg.WeekStart,
		FilesScanned: len(refs),
	}
	if len(refs) == 0 {
		util.LogInfo("No usage files found")
		return result, nil
	}

	refs = sorter.New(cfg.Concurrency).Sort(refs)

	dedup := parser.NewDeduplicator()
	var events []model.UsageEvent
	for _, parsed := range parser.NewParser(cfg.Concurrency).ParseFiles(refs) {
		if parsed.Err != nil {
			util.LogWarnf("Failed to parse %s: %v", parsed.File.Path, parsed.Err)
			continue
		}
		for _, e := range parsed.Events {
			if !dedup.Admit(e) {
				continue
			}
			e.Cost = resolver.Resolve(ctx, e)
			events = append(events, e)
		}
	}
	result.Collapsed = dedup.Collapsed()

	events = aggregator.FilterRange(events, cfg.Since, cfg.Until, cfg.Location)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	result.Events = events

	util.LogInfof("Pipeline run: %d files, %d events, %d duplicates collapsed",
		result.FilesScanned, len(events), result.Collapsed)
	return result, nil
}

// Buckets aggregates the run's events under a grouping key.
func (r *Result) Buckets(groupBy string, byProject bool) ([]model.BucketUsage, error) {
	return aggregator.New(r.Location, r.WeekStart).Aggregate(r.Events, groupBy, byProject)
}

// Unified aggregates and converts buckets to the cross-tool shape using the
// run source's own totals formula.
func (r *Result) Unified(groupBy string) ([]model.UnifiedUsage, error) {
	buckets, err := r.Buckets(groupBy, false)
	if err != nil {
		return nil, err
	}
	return unified.Normalize(r.Source, buckets)
}

// Blocks assembles floating billing blocks from the run's events.
func (r *Result) Blocks(opts blocks.Options) []model.BillingBlock {
	return blocks.NewBuilder(opts).Build(r.Events)
}

// Windows assembles calendar-aligned quota windows from the run's events.
func (r *Result) Windows(windowHours int) []model.SessionWindow {
	return window.NewBuilder(windowHours, r.Location).Build(r.Events)
}

// MonthlySummaries rolls windows up into per-month quota summaries.
func (r *Result) MonthlySummaries(windowHours, limit int, now time.Time) []model.MonthlyWindowSummary {
	b := window.NewBuilder(windowHours, r.Location)
	return b.MonthlySummaries(b.Build(r.Events), limit, now)
}
