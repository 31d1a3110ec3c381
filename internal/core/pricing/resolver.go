package pricing

import (
	"context"
	"fmt"

	"github.com/penwyp/go-usage-ledger/internal/core/model"
)

// CostMode selects how an event's cost is resolved.
type CostMode string

const (
	// CostModeAuto prefers the recorded cost, falling back to calculation.
	CostModeAuto CostMode = "auto"
	// CostModeCalculate always computes from tokens and the pricing source.
	CostModeCalculate CostMode = "calculate"
	// CostModeDisplay only ever reports the recorded cost.
	CostModeDisplay CostMode = "display"
)

// ParseCostMode validates a mode string.
func ParseCostMode(s string) (CostMode, error) {
	switch CostMode(s) {
	case CostModeAuto, CostModeCalculate, CostModeDisplay:
		return CostMode(s), nil
	case "":
		return CostModeAuto, nil
	}
	return "", fmt.Errorf("unknown cost mode: %s (expected auto, calculate or display)", s)
}

// Resolver turns an event into a cost under one mode and pricing source.
type Resolver struct {
	mode   CostMode
	source *Source
}

// NewResolver creates a Resolver.
func NewResolver(mode CostMode, source *Source) *Resolver {
	return &Resolver{mode: mode, source: source}
}

// Mode returns the resolver's cost mode.
func (r *Resolver) Mode() CostMode {
	return r.mode
}

// Resolve returns the cost of one event in USD.
func (r *Resolver) Resolve(ctx context.Context, e model.UsageEvent) float64 {
	switch r.mode {
	case CostModeDisplay:
		return e.RecordedCost()
	case CostModeCalculate:
		return r.calculate(ctx, e)
	default: // auto
		if e.HasRecordedCost() {
			return *e.CostUSD
		}
		return r.calculate(ctx, e)
	}
}

func (r *Resolver) calculate(ctx context.Context, e model.UsageEvent) float64 {
	pricing, err := r.source.GetModelPricing(ctx, e.Model)
	if err != nil || pricing == nil {
		return 0
	}

	cost := float64(e.InputTokens) * pricing.InputCostPerToken
	cost += float64(e.OutputTokens) * pricing.OutputCostPerToken
	cost += float64(e.CacheCreationTokens) * pricing.CacheCreationCostPerToken
	cost += float64(e.CacheReadTokens) * pricing.CacheReadCostPerToken
	return cost
}
