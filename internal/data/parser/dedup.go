package parser

import (
	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

// Deduplicator collapses events sharing a messageId:requestId pair. Its
// lifetime is exactly one pipeline run; it is never shared across runs.
// Because files are processed in chronological order, the first occurrence
// of a key always wins.
type Deduplicator struct {
	seen      map[string]struct{}
	collapsed int
}

// NewDeduplicator creates an empty Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit reports whether the event is the first with its identity. Events
// missing either id are never deduplicated.
func (d *Deduplicator) Admit(e model.UsageEvent) bool {
	key := e.DedupKey()
	if key == "" {
		return true
	}
	if _, dup := d.seen[key]; dup {
		d.collapsed++
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Filter returns the events that pass Admit, in order.
func (d *Deduplicator) Filter(events []model.UsageEvent) []model.UsageEvent {
	result := make([]model.UsageEvent, 0, len(events))
	for _, e := range events {
		if d.Admit(e) {
			result = append(result, e)
		}
	}
	return result
}

// Collapsed returns how many duplicate events were discarded so far.
func (d *Deduplicator) Collapsed() int {
	return d.collapsed
}
