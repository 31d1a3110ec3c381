package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

func event(ts time.Time, modelName, projectPath, sessionId string, input int, cost float64) model.UsageEvent {
	return model.UsageEvent{
		Timestamp:   ts,
		Model:       modelName,
		ProjectPath: projectPath,
		SessionId:   sessionId,
		InputTokens: input,
		Cost:        cost,
	}
}

func TestAggregateByDay(t *testing.T) {
	a := New(time.UTC, time.Sunday)
	day1 := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)

	buckets, err := a.Aggregate([]model.UsageEvent{
		event(day1, "claude-sonnet-4-20250514", "proj-a", "s1", 100, 0.1),
		event(day1.Add(time.Hour), "claude-sonnet-4-20250514", "proj-a", "s1", 200, 0.2),
		event(day2, "claude-sonnet-4-20250514", "proj-a", "s1", 300, 0.3),
	}, model.GroupByDay, false)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2025-06-15", buckets[0].Key)
	assert.Equal(t, 300, buckets[0].InputTokens)
	assert.InDelta(t, 0.3, buckets[0].Cost, 1e-9)
	assert.Equal(t, "2025-06-16", buckets[1].Key)
	assert.Equal(t, 300, buckets[1].InputTokens)
}

func TestAggregateTimezoneChangesBuckets(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:30 UTC on the 15th is already the 16th in Tokyo.
	late := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)

	utcBuckets, err := New(time.UTC, time.Sunday).Aggregate(
		[]model.UsageEvent{event(late, "m", "p", "s", 1, 0)}, model.GroupByDay, false)
	require.NoError(t, err)
	tokyoBuckets, err := New(tokyo, time.Sunday).Aggregate(
		[]model.UsageEvent{event(late, "m", "p", "s", 1, 0)}, model.GroupByDay, false)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-15", utcBuckets[0].Key)
	assert.Equal(t, "2025-06-16", tokyoBuckets[0].Key)
}

func TestAggregateByWeek(t *testing.T) {
	a := New(time.UTC, time.Sunday)
	// 2025-06-18 is a Wednesday; its Sunday-start week begins 2025-06-15.
	wed := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

	buckets, err := a.Aggregate([]model.UsageEvent{
		event(wed, "m", "p", "s", 10, 0),
	}, model.GroupByWeek, false)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-06-15", buckets[0].Key)

	monday := New(time.UTC, time.Monday)
	buckets, err = monday.Aggregate([]model.UsageEvent{
		event(wed, "m", "p", "s", 10, 0),
	}, model.GroupByWeek, false)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", buckets[0].Key)
}

func TestAggregateByMonthAndProject(t *testing.T) {
	a := New(time.UTC, time.Sunday)
	ts := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	buckets, err := a.Aggregate([]model.UsageEvent{
		event(ts, "m", "proj-a/sub", "s1", 10, 0.1),
		event(ts, "m", "proj-b", "s2", 20, 0.2),
	}, model.GroupByMonth, false)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-06", buckets[0].Key)
	assert.Equal(t, 30, buckets[0].InputTokens)

	buckets, err = a.Aggregate([]model.UsageEvent{
		event(ts, "m", "proj-a/sub", "s1", 10, 0.1),
		event(ts, "m", "proj-b", "s2", 20, 0.2),
	}, model.GroupByProject, false)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "proj-a", buckets[0].Key)
	assert.Equal(t, "proj-b", buckets[1].Key)
}

func TestAggregateByDayPerProject(t *testing.T) {
	a := New(time.UTC, time.Sunday)
	ts := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	buckets, err := a.Aggregate([]model.UsageEvent{
		event(ts, "m", "proj-b", "s2", 20, 0.2),
		event(ts, "m", "proj-a", "s1", 10, 0.1),
	}, model.GroupByDay, true)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2025-06-15", buckets[0].Key)
	assert.Equal(t, "proj-a", buckets[0].Project)
	assert.Equal(t, "2025-06-15", buckets[1].Key)
	assert.Equal(t, "proj-b", buckets[1].Project)
}

func TestAggregateBySession(t *testing.T) {
	a := New(time.UTC, time.Sunday)
	ts := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	events := []model.UsageEvent{
		event(ts, "m", "proj-a", "sess-1", 10, 0.1),
		event(ts.Add(time.Hour), "m", "proj-a", "sess-1", 20, 0.2),
	}
	events[0].Version = "1.0.30"
	events[1].Version = "1.0.31"

	buckets, err := a.Aggregate(events, model.GroupBySession, false)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	b := buckets[0]
	assert.Equal(t, "proj-a/sess-1", b.Key)
	assert.Equal(t, "sess-1", b.SessionId)
	assert.Equal(t, "proj-a", b.ProjectPath)
	assert.Equal(t, ts.Add(time.Hour), b.LastActivity)
	assert.Equal(t, []string{"1.0.30", "1.0.31"}, b.Versions)
}

func TestAggregateModelBreakdowns(t *testing.T) {
	a := New(time.UTC, time.Sunday)
	ts := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	buckets, err := a.Aggregate([]model.UsageEvent{
		event(ts, "claude-3-5-haiku-20241022", "p", "s", 10, 0.1),
		event(ts, "claude-opus-4-20250514", "p", "s", 20, 5.0),
		event(ts, model.SyntheticModel, "p", "s", 5, 0),
		event(ts, "", "p", "s", 7, 0),
	}, model.GroupByDay, false)
	require.NoError(t, err)
	require.Len(t, buckets, 1)

	b := buckets[0]
	// Synthetic and empty models count toward the bucket total but never
	// appear in the breakdown.
	assert.Equal(t, 42, b.InputTokens)
	require.Len(t, b.ModelBreakdowns, 2)
	assert.Equal(t, "claude-opus-4-20250514", b.ModelBreakdowns[0].Model)
	assert.Equal(t, "claude-3-5-haiku-20241022", b.ModelBreakdowns[1].Model)
	assert.NotContains(t, b.ModelsUsed, model.SyntheticModel)
}

func TestAggregateUnknownGroupBy(t *testing.T) {
	a := New(time.UTC, time.Sunday)
	_, err := a.Aggregate([]model.UsageEvent{
		event(time.Now(), "m", "p", "s", 1, 0),
	}, "hour", false)
	assert.Error(t, err)
}

func TestFilterRange(t *testing.T) {
	loc := time.UTC
	mk := func(day int) model.UsageEvent {
		return event(time.Date(2025, 6, day, 12, 0, 0, 0, time.UTC), "m", "p", "s", 1, 0)
	}
	events := []model.UsageEvent{mk(10), mk(15), mk(20)}

	since := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	filtered := FilterRange(events, since, until, loc)
	require.Len(t, filtered, 1)
	assert.Equal(t, 15, filtered[0].Timestamp.Day())

	assert.Len(t, FilterRange(events, time.Time{}, time.Time{}, loc), 3)
	assert.Len(t, FilterRange(events, since, time.Time{}, loc), 2)
	assert.Len(t, FilterRange(events, time.Time{}, until, loc), 2)
}
