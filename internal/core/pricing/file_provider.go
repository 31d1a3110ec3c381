package pricing

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-usage-ledger/internal/util"
)

// FileProvider reads a user-curated pricing table from a local JSON file
// keyed by exact model name. A user who supplies their own table chose those
// numbers, so lookup is exact match only and a load failure is fatal for any
// cost that needs it.
type FileProvider struct {
	path    string
	mu      sync.RWMutex
	pricing map[string]ModelPricing
}

// NewFileProvider creates a provider over a local pricing file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{
		path:    path,
		pricing: make(map[string]ModelPricing),
	}
}

func (p *FileProvider) GetModelPricing(ctx context.Context, modelName string) (ModelPricing, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if pricing, ok := p.pricing[modelName]; ok {
		return pricing, nil
	}
	return ModelPricing{}, fmt.Errorf("%w: %s", ErrPricingNotFound, modelName)
}

// Load reads and parses the pricing file.
func (p *FileProvider) Load(ctx context.Context) error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read pricing file %s: %w", p.path, err)
	}

	var table map[string]ModelPricing
	if err := sonic.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse pricing file %s: %w", p.path, err)
	}

	p.mu.Lock()
	p.pricing = table
	p.mu.Unlock()

	util.LogDebugf("Loaded %d model pricings from %s", len(table), p.path)
	return nil
}

func (p *FileProvider) Name() string { return "file" }
