package pricing

import (
	"errors"
	"strings"
)

// ModelPricing defines per-token rates for the four token classes. A class
// with a zero rate contributes nothing to a calculated cost.
type ModelPricing struct {
	InputCostPerToken         float64 `json:"input_cost_per_token"`
	OutputCostPerToken        float64 `json:"output_cost_per_token"`
	CacheCreationCostPerToken float64 `json:"cache_creation_input_token_cost"`
	CacheReadCostPerToken     float64 `json:"cache_read_input_token_cost"`
}

// ErrPricingNotFound is returned when pricing for a model is not found.
var ErrPricingNotFound = errors.New("pricing not found for model")

// ErrSourceClosed is returned when a released pricing source is used.
var ErrSourceClosed = errors.New("pricing source already released")

// staticPricing carries the bundled rates used when no remote table is
// configured. Rates are USD per token.
var staticPricing = map[string]ModelPricing{
	"claude-3-5-haiku": {
		InputCostPerToken:         0.8e-6,
		OutputCostPerToken:        4.0e-6,
		CacheCreationCostPerToken: 1.0e-6,
		CacheReadCostPerToken:     0.08e-6,
	},
	"claude-3-5-sonnet": {
		InputCostPerToken:         3.0e-6,
		OutputCostPerToken:        15.0e-6,
		CacheCreationCostPerToken: 3.75e-6,
		CacheReadCostPerToken:     0.3e-6,
	},
	"claude-sonnet-4-20250514": {
		InputCostPerToken:         3.0e-6,
		OutputCostPerToken:        15.0e-6,
		CacheCreationCostPerToken: 3.75e-6,
		CacheReadCostPerToken:     0.3e-6,
	},
	"claude-opus-4-20250514": {
		InputCostPerToken:         15.0e-6,
		OutputCostPerToken:        75.0e-6,
		CacheCreationCostPerToken: 18.75e-6,
		CacheReadCostPerToken:     1.5e-6,
	},
}

// lookupModel resolves a model name against a pricing table: exact name
// first, then a small set of vendor-prefix variants, then case-insensitive
// substring match in either direction. First hit wins.
func lookupModel(table map[string]ModelPricing, modelName string) (ModelPricing, bool) {
	if modelName == "" {
		return ModelPricing{}, false
	}

	if pricing, ok := table[modelName]; ok {
		return pricing, true
	}

	variations := []string{
		"anthropic/" + modelName,
		"claude-3-5-" + modelName,
		"claude-3-" + modelName,
		"claude-" + modelName,
	}
	for _, variant := range variations {
		if pricing, ok := table[variant]; ok {
			return pricing, true
		}
	}

	modelLower := strings.ToLower(modelName)
	for key, pricing := range table {
		keyLower := strings.ToLower(key)
		if strings.Contains(keyLower, modelLower) || strings.Contains(modelLower, keyLower) {
			return pricing, true
		}
	}

	return ModelPricing{}, false
}
