package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/penwyp/go-usage-ledger/internal/util"
)

// SourceConfig selects the pricing backend for one run.
type SourceConfig struct {
	// PricingSource is "default", "litellm", or a path to a local JSON file.
	PricingSource string `json:"pricingSource"`
	// PricingOfflineMode skips the remote fetch and serves bundled rates.
	PricingOfflineMode bool `json:"pricingOfflineMode"`
}

// Source is the run-scoped handle over a pricing provider. It is acquired at
// pipeline start, loads its table at most once, and must be released via
// Close on every exit path. After Close, lookups fail.
type Source struct {
	provider Provider
	degraded bool
	closed   bool
}

// Acquire creates and loads the pricing source for one run.
//
// A load failure for the default remote table degrades gracefully to
// zero-cost calculations; a failure loading a user-supplied file is fatal,
// since costs must not be silently guessed from a source the user chose.
func Acquire(ctx context.Context, cfg SourceConfig) (*Source, error) {
	source := cfg.PricingSource
	if source == "" {
		source = "default"
	}

	var provider Provider
	userSupplied := false

	switch {
	case source == "default" || cfg.PricingOfflineMode:
		provider = NewDefaultProvider()
	case source == "litellm":
		provider = NewLiteLLMProvider()
	case strings.HasSuffix(source, ".json"):
		provider = NewFileProvider(source)
		userSupplied = true
	default:
		return nil, fmt.Errorf("unknown pricing source: %s", source)
	}

	s := &Source{provider: provider}
	if err := provider.Load(ctx); err != nil {
		if userSupplied {
			return nil, err
		}
		util.LogWarnf("Pricing source %s unavailable, calculated costs degrade to zero: %v", provider.Name(), err)
		s.degraded = true
	}

	return s, nil
}

// GetModelPricing looks up pricing for a model. A nil result with ok=false
// means the model is unknown and contributes zero cost.
func (s *Source) GetModelPricing(ctx context.Context, modelName string) (*ModelPricing, error) {
	if s.closed {
		return nil, ErrSourceClosed
	}
	if s.degraded {
		return nil, nil
	}

	pricing, err := s.provider.GetModelPricing(ctx, modelName)
	if err != nil {
		return nil, nil // unknown model, null pricing
	}
	return &pricing, nil
}

// Name returns the backing provider name.
func (s *Source) Name() string {
	return s.provider.Name()
}

// Close releases the memoized table. Idempotent.
func (s *Source) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if p, ok := s.provider.(*LiteLLMProvider); ok {
		p.release()
	}
}
