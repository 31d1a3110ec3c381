package blocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

func activeBlock(start time.Time) model.BillingBlock {
	return model.BillingBlock{
		StartTime: start,
		EndTime:   start.Add(5 * time.Hour),
		IsActive:  true,
		TokenCounts: model.TokenCounts{
			InputTokens:              600,
			OutputTokens:             300,
			CacheCreationInputTokens: 60,
			CacheReadInputTokens:     240,
		},
		CostUSD: 1.20,
	}
}

func TestCalculateBurnRate(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	block := activeBlock(start)
	now := start.Add(60 * time.Minute)

	rate := CalculateBurnRate(block, now)
	require.NotNil(t, rate)
	// 1200 total tokens over 60 minutes.
	assert.InDelta(t, 20.0, rate.TokensPerMinute, 1e-9)
	// Cache tokens are excluded from the indicator.
	assert.InDelta(t, 15.0, rate.TokensPerMinuteForIndicator, 1e-9)
	assert.InDelta(t, 1.20, rate.CostPerHour, 1e-9)
}

func TestCalculateBurnRateNilCases(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	inactive := activeBlock(start)
	inactive.IsActive = false
	assert.Nil(t, CalculateBurnRate(inactive, start.Add(time.Hour)))

	gap := activeBlock(start)
	gap.IsGap = true
	assert.Nil(t, CalculateBurnRate(gap, start.Add(time.Hour)))

	assert.Nil(t, CalculateBurnRate(activeBlock(start), start))
}

func TestProjectUsage(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	block := activeBlock(start)
	now := start.Add(60 * time.Minute)

	projected := ProjectUsage(block, now)
	require.NotNil(t, projected)
	// 20 tokens/min over the 300 minute schedule.
	assert.Equal(t, 6000, projected.TotalTokens)
	assert.InDelta(t, 6.0, projected.TotalCost, 1e-9)
	assert.InDelta(t, 240.0, projected.RemainingMinutes, 1e-9)
}

func TestProjectUsageRemainingClamped(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	block := activeBlock(start)

	projected := ProjectUsage(block, block.EndTime.Add(30*time.Minute))
	require.NotNil(t, projected)
	assert.Equal(t, 0.0, projected.RemainingMinutes)
}

func TestProjectUsageNilWithoutRate(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	gap := activeBlock(start)
	gap.IsGap = true
	assert.Nil(t, ProjectUsage(gap, start.Add(time.Hour)))
}

func TestCheckTokenLimit(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	block := activeBlock(start)
	now := start.Add(60 * time.Minute) // projects 6000 tokens

	tests := []struct {
		name        string
		limit       int
		wantStatus  string
		wantPercent float64
	}{
		{"ok", 20000, "ok", 30},
		{"warning", 7000, "warning", 6000 * 100.0 / 7000},
		{"exceeds", 5000, "exceeds", 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := CheckTokenLimit(block, tt.limit, now)
			require.NotNil(t, status)
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.InDelta(t, tt.wantPercent, status.PercentUsed, 1e-9)
			assert.Equal(t, 6000, status.ProjectedUsage)
			assert.Equal(t, tt.limit, status.Limit)
		})
	}
}

func TestCheckTokenLimitNilCases(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	block := activeBlock(start)
	now := start.Add(time.Hour)

	assert.Nil(t, CheckTokenLimit(block, 0, now))
	assert.Nil(t, CheckTokenLimit(block, -5, now))

	gap := block
	gap.IsGap = true
	assert.Nil(t, CheckTokenLimit(gap, 1000, now))
}
