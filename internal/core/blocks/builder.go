// Package blocks builds floating, activity-anchored billing blocks. A block
// opens at the hour floor of its first event and spans a fixed duration;
// idle stretches of at least the block duration become synthetic gap blocks
// so the timeline has no silent holes.
package blocks

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// Options configures block construction.
type Options struct {
	// DurationHours is the block length; defaults to 5.
	DurationHours int
	// GapThreshold is the idle duration that triggers a gap block; zero
	// means the block duration.
	GapThreshold time.Duration
	// Now anchors the active-block check; zero means time.Now.
	Now time.Time
}

// Builder constructs billing blocks from events.
type Builder struct {
	duration     time.Duration
	gapThreshold time.Duration
	now          time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	hours := opts.DurationHours
	if hours <= 0 {
		hours = model.DefaultBlockDurationHours
	}
	duration := time.Duration(hours) * time.Hour

	gap := opts.GapThreshold
	if gap <= 0 {
		gap = duration
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	return &Builder{
		duration:     duration,
		gapThreshold: gap,
		now:          now,
	}
}

// Duration returns the configured block length.
func (b *Builder) Duration() time.Duration {
	return b.duration
}

// Build groups events into billing blocks with gap blocks in between. Events
// are processed in chronological order; the input is re-sorted defensively.
func (b *Builder) Build(events []model.UsageEvent) []model.BillingBlock {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]model.UsageEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var result []model.BillingBlock
	var current *model.BillingBlock

	for _, e := range sorted {
		if current == nil {
			current = b.openBlock(e.Timestamp)
		} else if !e.Timestamp.Before(current.EndTime) {
			closed := *current
			result = append(result, closed)

			if gap := b.gapBlock(closed, e.Timestamp); gap != nil {
				result = append(result, *gap)
			}
			current = b.openBlock(e.Timestamp)
		}

		b.addEvent(current, e, e.Cost)
	}
	result = append(result, *current)

	// Only the final block may be active, and only while its scheduled end
	// is still ahead.
	last := &result[len(result)-1]
	if !last.IsGap && b.now.Before(last.EndTime) {
		last.IsActive = true
	}

	util.LogDebugf("Built %d billing blocks (%d events)", len(result), len(sorted))
	return result
}

// openBlock starts a block at the hour floor of the event timestamp.
func (b *Builder) openBlock(ts time.Time) *model.BillingBlock {
	start := ts.Truncate(time.Hour)
	return &model.BillingBlock{
		Id:        start.UTC().Format(time.RFC3339),
		StartTime: start,
		EndTime:   start.Add(b.duration),
	}
}

// gapBlock returns a synthetic block spanning the idle interval between a
// closed block's last activity and the next event, or nil when the idle time
// is below the threshold.
func (b *Builder) gapBlock(closed model.BillingBlock, next time.Time) *model.BillingBlock {
	lastActivity := closed.StartTime
	if closed.ActualEndTime != nil {
		lastActivity = *closed.ActualEndTime
	}

	if next.Sub(lastActivity) < b.gapThreshold {
		return nil
	}

	return &model.BillingBlock{
		Id:        "gap-" + lastActivity.UTC().Format(time.RFC3339),
		StartTime: lastActivity,
		EndTime:   next,
		IsGap:     true,
	}
}

func (b *Builder) addEvent(block *model.BillingBlock, e model.UsageEvent, cost float64) {
	block.Entries = append(block.Entries, e)

	actual := e.Timestamp
	block.ActualEndTime = &actual

	block.TokenCounts.InputTokens += e.InputTokens
	block.TokenCounts.OutputTokens += e.OutputTokens
	block.TokenCounts.CacheCreationInputTokens += e.CacheCreationTokens
	block.TokenCounts.CacheReadInputTokens += e.CacheReadTokens
	block.CostUSD += cost

	if e.Model != "" && e.Model != model.SyntheticModel && !lo.Contains(block.Models, e.Model) {
		block.Models = append(block.Models, e.Model)
	}
}

// FilterRecent keeps blocks whose interval touches the last three days,
// including the active block.
func FilterRecent(all []model.BillingBlock, now time.Time) []model.BillingBlock {
	cutoff := now.AddDate(0, 0, -3)
	return lo.Filter(all, func(block model.BillingBlock, _ int) bool {
		return block.IsActive || block.EndTime.After(cutoff)
	})
}
