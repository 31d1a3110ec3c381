// Package window builds calendar-aligned fixed-duration quota windows.
// Unlike billing blocks, windows are anchored to the wall clock, not to
// activity, so they count against a period quota regardless of idle gaps.
package window

import (
	"fmt"
	"sort"
	"time"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
	"github.com/penwyp/go-usage-ledger/internal/util"
)

// Builder constructs SessionWindows from chronologically ordered events.
type Builder struct {
	windowHours int
	duration    time.Duration
	location    *time.Location
	// maxWalk bounds the defensive collision walk; a full day of slots is
	// more than clock skew can ever require.
	maxWalk int
}

// NewBuilder creates a Builder for windows of windowHours length.
func NewBuilder(windowHours int, location *time.Location) *Builder {
	if windowHours <= 0 {
		windowHours = model.DefaultWindowHours
	}
	if location == nil {
		location = time.Local
	}
	return &Builder{
		windowHours: windowHours,
		duration:    time.Duration(windowHours) * time.Hour,
		location:    location,
		maxWalk:     24/windowHours + 1,
	}
}

type windowState struct {
	slot          time.Time // slot actually occupied
	id            string    // id of the nominal slot of the first event
	minTime       time.Time
	maxTime       time.Time
	stats         model.TokenStats
	messageCount  int
	conversations map[string]struct{}
}

// Build groups events into non-overlapping windows. Each event lands in the
// slot derived from its own local time; when a slot is already occupied by a
// window that was walked there from an earlier slot, the event walks forward
// to the next free slot instead of overwriting.
func (b *Builder) Build(events []model.UsageEvent) []model.SessionWindow {
	windows := make(map[int64]*windowState)

	for _, e := range events {
		w := b.placeEvent(windows, e)
		if w.minTime.IsZero() || e.Timestamp.Before(w.minTime) {
			w.minTime = e.Timestamp
		}
		if e.Timestamp.After(w.maxTime) {
			w.maxTime = e.Timestamp
		}
		w.stats.AddEvent(e, e.Cost)
		w.messageCount++
		if e.SessionId != "" {
			w.conversations[e.SessionId] = struct{}{}
		}
	}

	result := make([]model.SessionWindow, 0, len(windows))
	for _, w := range windows {
		result = append(result, b.finalize(w))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})

	util.LogDebugf("Built %d session windows from %d events", len(result), len(events))
	return result
}

// placeEvent finds or creates the window for an event, walking forward past
// inconsistent occupants. The walk is bounded; on exhaustion the event folds
// into the last examined window rather than being dropped.
func (b *Builder) placeEvent(windows map[int64]*windowState, e model.UsageEvent) *windowState {
	nominal := b.nominalSlot(e.Timestamp)
	id := b.WindowId(e.Timestamp)

	slot := nominal
	var last *windowState
	for step := 0; step < b.maxWalk; step++ {
		w, ok := windows[slot.Unix()]
		if !ok {
			w = &windowState{
				slot:          slot,
				id:            id,
				conversations: make(map[string]struct{}),
			}
			windows[slot.Unix()] = w
			return w
		}
		if w.id == id {
			return w
		}
		last = w
		slot = slot.Add(b.duration)
	}
	return last
}

// nominalSlot truncates a timestamp to its window slot in local time.
func (b *Builder) nominalSlot(t time.Time) time.Time {
	lt := t.In(b.location)
	slotHour := (lt.Hour() / b.windowHours) * b.windowHours
	return time.Date(lt.Year(), lt.Month(), lt.Day(), slotHour, 0, 0, 0, b.location)
}

// WindowId derives the window identity from an event's own local time.
func (b *Builder) WindowId(t time.Time) string {
	slot := b.nominalSlot(t)
	return fmt.Sprintf("%s-%02d", slot.Format("2006-01-02"), slot.Hour())
}

// SlotInterval returns the nominal [start, end) of a window id.
func (b *Builder) SlotInterval(id string) (time.Time, time.Time, error) {
	var y, m, d, h int
	if _, err := fmt.Sscanf(id, "%4d-%2d-%2d-%2d", &y, &m, &d, &h); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed window id %q: %w", id, err)
	}
	start := time.Date(y, time.Month(m), d, h, 0, 0, 0, b.location)
	return start, start.Add(b.duration), nil
}

// finalize clamps the observed span into the occupied slot.
func (b *Builder) finalize(w *windowState) model.SessionWindow {
	slotEnd := w.slot.Add(b.duration)

	start := w.minTime
	if start.Before(w.slot) {
		start = w.slot
	}
	end := w.maxTime
	if end.After(slotEnd) {
		end = slotEnd
	}
	if end.Before(start) {
		end = start
	}

	return model.SessionWindow{
		Id:                w.id,
		StartTime:         start,
		EndTime:           end,
		TokenStats:        w.stats,
		MessageCount:      w.messageCount,
		ConversationCount: len(w.conversations),
	}
}
