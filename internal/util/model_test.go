package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplifyModelName(t *testing.T) {
	assert.Equal(t, "Sonnet-4", SimplifyModelName("claude-sonnet-4-20250514"))
	assert.Equal(t, "Opus-4", SimplifyModelName("claude-opus-4-20250514"))
	assert.Equal(t, "3-5-haiku", SimplifyModelName("claude-3-5-haiku-20241022"))
	// Names outside the claude-{name}-{date} pattern pass through unchanged.
	assert.Equal(t, "gpt-4o", SimplifyModelName("gpt-4o"))
	assert.Equal(t, "<synthetic>", SimplifyModelName("<synthetic>"))
}

func TestGetModelOrder(t *testing.T) {
	assert.Equal(t, 1, GetModelOrder("claude-opus-4-20250514"))
	assert.Equal(t, 2, GetModelOrder("claude-sonnet-4-20250514"))
	assert.Equal(t, 3, GetModelOrder("claude-3-5-haiku-20241022"))
	assert.Equal(t, 100, GetModelOrder("gpt-4o"))
}

func TestSortModels(t *testing.T) {
	models := []string{
		"claude-3-5-haiku-20241022",
		"gpt-4o",
		"claude-sonnet-4-20250514",
		"claude-opus-4-20250514",
	}
	sorted := SortModels(models)
	assert.Equal(t, []string{
		"claude-opus-4-20250514",
		"claude-sonnet-4-20250514",
		"claude-3-5-haiku-20241022",
		"gpt-4o",
	}, sorted)
	// Input slice is left untouched.
	assert.Equal(t, "claude-3-5-haiku-20241022", models[0])
}
