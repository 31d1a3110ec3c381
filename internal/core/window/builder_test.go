package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

func event(ts time.Time, sessionId string, input int, cost float64) model.UsageEvent {
	return model.UsageEvent{
		Timestamp:   ts,
		SessionId:   sessionId,
		InputTokens: input,
		Cost:        cost,
	}
}

func TestWindowId(t *testing.T) {
	b := NewBuilder(5, time.UTC)

	assert.Equal(t, "2025-06-15-10", b.WindowId(time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-15-00", b.WindowId(time.Date(2025, 6, 15, 4, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-15-20", b.WindowId(time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)))
}

func TestWindowIdLocalTime(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	b := NewBuilder(5, tokyo)

	// 23:30 UTC is 08:30 next day in Tokyo, slot 05-10.
	id := b.WindowId(time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-06-16-05", id)
}

func TestBuildGroupsIntoSlots(t *testing.T) {
	b := NewBuilder(5, time.UTC)
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	windows := b.Build([]model.UsageEvent{
		event(base.Add(30*time.Minute), "s1", 100, 0.1),
		event(base.Add(2*time.Hour), "s2", 200, 0.2),
		event(base.Add(6*time.Hour), "s1", 300, 0.3), // 16:00, next slot
	})
	require.Len(t, windows, 2)

	first := windows[0]
	assert.Equal(t, "2025-06-15-10", first.Id)
	assert.Equal(t, 300, first.InputTokens)
	assert.Equal(t, 2, first.MessageCount)
	assert.Equal(t, 2, first.ConversationCount)

	second := windows[1]
	assert.Equal(t, "2025-06-15-15", second.Id)
	assert.Equal(t, 300, second.InputTokens)
	assert.Equal(t, 1, second.ConversationCount)
}

func TestBuildWindowsNeverOverlap(t *testing.T) {
	b := NewBuilder(5, time.UTC)
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	var events []model.UsageEvent
	for i := 0; i < 48; i++ {
		events = append(events, event(base.Add(time.Duration(i)*30*time.Minute), "s", 1, 0))
	}

	windows := b.Build(events)
	require.NotEmpty(t, windows)
	for i := 1; i < len(windows); i++ {
		assert.False(t, windows[i].StartTime.Before(windows[i-1].EndTime),
			"window %d starts before window %d ends", i, i-1)
	}
}

func TestBuildSpanClampedToSlot(t *testing.T) {
	b := NewBuilder(5, time.UTC)
	slot := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	windows := b.Build([]model.UsageEvent{
		event(slot.Add(time.Hour), "s", 1, 0),
		event(slot.Add(4*time.Hour), "s", 1, 0),
	})
	require.Len(t, windows, 1)

	w := windows[0]
	assert.Equal(t, slot.Add(time.Hour), w.StartTime)
	assert.Equal(t, slot.Add(4*time.Hour), w.EndTime)
	assert.True(t, !w.StartTime.Before(slot))
	assert.True(t, !w.EndTime.After(slot.Add(5*time.Hour)))
}

func TestSlotInterval(t *testing.T) {
	b := NewBuilder(5, time.UTC)

	start, end, err := b.SlotInterval("2025-06-15-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC), end)

	_, _, err = b.SlotInterval("gibberish")
	assert.Error(t, err)
}

func TestDefaultWindowHours(t *testing.T) {
	b := NewBuilder(0, time.UTC)
	assert.Equal(t, model.DefaultWindowHours, b.windowHours)
}

func TestMonthlySummaries(t *testing.T) {
	b := NewBuilder(5, time.UTC)
	june := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	july := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)

	windows := b.Build([]model.UsageEvent{
		event(june, "s1", 100, 1.0),
		event(june.Add(6*time.Hour), "s1", 200, 2.0),
		event(july, "s2", 300, 3.0),
	})

	now := time.Date(2025, 7, 2, 9, 30, 0, 0, time.UTC)
	summaries := b.MonthlySummaries(windows, 50, now)
	require.Len(t, summaries, 2)

	juneSummary := summaries[0]
	assert.Equal(t, "2025-06", juneSummary.Month)
	assert.Equal(t, 2, juneSummary.TotalSessions)
	assert.Equal(t, 48, juneSummary.RemainingSessions)
	assert.InDelta(t, 4.0, juneSummary.UtilizationPercent, 1e-9)
	assert.False(t, juneSummary.CurrentSession.HasActiveSession)

	julySummary := summaries[1]
	assert.Equal(t, 1, julySummary.TotalSessions)
	// now is 09:30 inside the 05:00-10:00 slot.
	assert.True(t, julySummary.CurrentSession.HasActiveSession)
	assert.Equal(t, int64(30*60*1000), julySummary.CurrentSession.TimeRemainingMs)
}

func TestMonthlySummariesQuotaExhausted(t *testing.T) {
	b := NewBuilder(5, time.UTC)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var events []model.UsageEvent
	for i := 0; i < 3; i++ {
		events = append(events, event(base.AddDate(0, 0, i), "s", 1, 0))
	}

	now := base.AddDate(0, 1, 0)
	summaries := b.MonthlySummaries(b.Build(events), 2, now)
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].TotalSessions)
	assert.Equal(t, 0, summaries[0].RemainingSessions)
	assert.InDelta(t, 150.0, summaries[0].UtilizationPercent, 1e-9)
}
