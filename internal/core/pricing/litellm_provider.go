package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-usage-ledger/internal/util"
)

const liteLLMPricingURL = "https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"

// LiteLLMProvider fetches pricing from LiteLLM's public model table.
type LiteLLMProvider struct {
	mu         sync.RWMutex
	pricing    map[string]ModelPricing
	httpClient *http.Client
	url        string
}

// liteLLMModel is the subset of a LiteLLM table entry the ledger consumes.
type liteLLMModel struct {
	InputCostPerToken           *float64 `json:"input_cost_per_token"`
	OutputCostPerToken          *float64 `json:"output_cost_per_token"`
	CacheCreationInputTokenCost *float64 `json:"cache_creation_input_token_cost"`
	CacheReadInputTokenCost     *float64 `json:"cache_read_input_token_cost"`
}

// NewLiteLLMProvider creates a new LiteLLM pricing provider.
func NewLiteLLMProvider() *LiteLLMProvider {
	return &LiteLLMProvider{
		pricing: make(map[string]ModelPricing),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		url: liteLLMPricingURL,
	}
}

func (p *LiteLLMProvider) GetModelPricing(ctx context.Context, modelName string) (ModelPricing, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if pricing, ok := lookupModel(p.pricing, modelName); ok {
		return pricing, nil
	}
	return ModelPricing{}, fmt.Errorf("%w: %s", ErrPricingNotFound, modelName)
}

// Load fetches the pricing table.
func (p *LiteLLMProvider) Load(ctx context.Context) error {
	util.LogDebugf("Fetching pricing data from %s", p.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch pricing data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var rawData map[string]json.RawMessage
	if err := sonic.Unmarshal(body, &rawData); err != nil {
		return fmt.Errorf("failed to parse pricing data: %w", err)
	}

	newPricing := make(map[string]ModelPricing)
	for modelName, rawModel := range rawData {
		var entry liteLLMModel
		if err := sonic.Unmarshal(rawModel, &entry); err != nil {
			continue
		}
		if entry.InputCostPerToken == nil || entry.OutputCostPerToken == nil {
			continue
		}

		pricing := ModelPricing{
			InputCostPerToken:  *entry.InputCostPerToken,
			OutputCostPerToken: *entry.OutputCostPerToken,
		}
		if entry.CacheCreationInputTokenCost != nil {
			pricing.CacheCreationCostPerToken = *entry.CacheCreationInputTokenCost
		}
		if entry.CacheReadInputTokenCost != nil {
			pricing.CacheReadCostPerToken = *entry.CacheReadInputTokenCost
		}
		newPricing[modelName] = pricing
	}

	p.mu.Lock()
	p.pricing = newPricing
	p.mu.Unlock()

	util.LogDebugf("Loaded %d model pricings from LiteLLM (%d raw entries)", len(newPricing), len(rawData))
	return nil
}

func (p *LiteLLMProvider) Name() string { return "litellm" }

// release drops the in-memory table and idle connections.
func (p *LiteLLMProvider) release() {
	p.mu.Lock()
	p.pricing = make(map[string]ModelPricing)
	p.mu.Unlock()
	p.httpClient.CloseIdleConnections()
}
