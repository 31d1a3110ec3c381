package pricing

import (
	"context"
)

// Provider supplies model pricing from one backing table.
type Provider interface {
	// GetModelPricing returns the pricing for a model, or ErrPricingNotFound.
	GetModelPricing(ctx context.Context, modelName string) (ModelPricing, error)

	// Load fetches or reads the backing table. Called at most once per run.
	Load(ctx context.Context) error

	// Name returns the provider name for logging.
	Name() string
}

// DefaultProvider serves the bundled static rates.
type DefaultProvider struct{}

// NewDefaultProvider creates a provider over the bundled static rates.
func NewDefaultProvider() *DefaultProvider {
	return &DefaultProvider{}
}

func (p *DefaultProvider) GetModelPricing(ctx context.Context, modelName string) (ModelPricing, error) {
	if pricing, ok := lookupModel(staticPricing, modelName); ok {
		return pricing, nil
	}
	return ModelPricing{}, ErrPricingNotFound
}

func (p *DefaultProvider) Load(ctx context.Context) error { return nil }

func (p *DefaultProvider) Name() string { return "default" }
