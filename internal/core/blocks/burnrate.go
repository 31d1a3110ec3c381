package blocks

import (
	"time"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

// CalculateBurnRate returns the usage velocity of an active block, or nil
// for gap blocks, inactive blocks and zero elapsed time.
func CalculateBurnRate(block model.BillingBlock, now time.Time) *model.BurnRate {
	if !block.IsActive || block.IsGap {
		return nil
	}

	elapsed := now.Sub(block.StartTime).Minutes()
	if elapsed <= 0 {
		return nil
	}

	tc := block.TokenCounts
	nonCacheTokens := tc.InputTokens + tc.OutputTokens

	return &model.BurnRate{
		TokensPerMinute:             float64(tc.Total()) / elapsed,
		TokensPerMinuteForIndicator: float64(nonCacheTokens) / elapsed,
		CostPerHour:                 block.CostUSD / elapsed * 60,
	}
}

// ProjectUsage extrapolates an active block linearly to its scheduled end.
func ProjectUsage(block model.BillingBlock, now time.Time) *model.ProjectedUsage {
	rate := CalculateBurnRate(block, now)
	if rate == nil {
		return nil
	}

	scheduledMinutes := block.EndTime.Sub(block.StartTime).Minutes()
	remaining := block.EndTime.Sub(now).Minutes()
	if remaining < 0 {
		remaining = 0
	}

	costPerMinute := rate.CostPerHour / 60
	return &model.ProjectedUsage{
		TotalTokens:      int(rate.TokensPerMinute * scheduledMinutes),
		TotalCost:        costPerMinute * scheduledMinutes,
		RemainingMinutes: remaining,
	}
}

// CheckTokenLimit grades an active block's projected usage against a token
// limit. Returns nil when there is no limit or no projection.
func CheckTokenLimit(block model.BillingBlock, limit int, now time.Time) *model.TokenLimitStatus {
	if limit <= 0 {
		return nil
	}
	projected := ProjectUsage(block, now)
	if projected == nil {
		return nil
	}

	percent := 100 * float64(projected.TotalTokens) / float64(limit)
	status := "ok"
	switch {
	case percent > 100:
		status = "exceeds"
	case percent > 80:
		status = "warning"
	}

	return &model.TokenLimitStatus{
		Limit:          limit,
		ProjectedUsage: projected.TotalTokens,
		PercentUsed:    percent,
		Status:         status,
	}
}
