package formatter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryFormatterFormat(t *testing.T) {
	f := NewSummaryFormatter()
	var buf bytes.Buffer
	f.SetOutput(&buf)

	rows := []Row{
		{
			Key:          "2025-06-14",
			InputTokens:  1000,
			OutputTokens: 500,
			TotalTokens:  1500,
			Cost:         1.5,
			ModelDetails: []ModelDetail{
				{Model: "claude-sonnet-4-20250514", InputTokens: 1000, OutputTokens: 500, TotalTokens: 1500, Cost: 1.5},
			},
		},
		{
			Key:          "2025-06-15",
			InputTokens:  2000,
			OutputTokens: 1000,
			TotalTokens:  3000,
			Cost:         3.0,
			ModelDetails: []ModelDetail{
				{Model: "claude-sonnet-4-20250514", InputTokens: 2000, OutputTokens: 1000, TotalTokens: 3000, Cost: 3.0},
			},
		},
	}
	require.NoError(t, f.Format(rows))

	output := buf.String()
	assert.Contains(t, output, "Range: 2025-06-14 to 2025-06-15")
	assert.Contains(t, output, "Input: 3,000")
	assert.Contains(t, output, "Output: 1,500")
	assert.Contains(t, output, "Total Tokens: 4,500")
	assert.Contains(t, output, "Total Cost: $4.50 USD")
	assert.Contains(t, output, "claude-sonnet-4-20250514:")
}

func TestSummaryFormatterEmpty(t *testing.T) {
	f := NewSummaryFormatter()
	var buf bytes.Buffer
	f.SetOutput(&buf)

	require.NoError(t, f.Format(nil))
	assert.Contains(t, buf.String(), "No data to summarize")
}

func TestSummaryFormatterSingleDay(t *testing.T) {
	f := NewSummaryFormatter()
	var buf bytes.Buffer
	f.SetOutput(&buf)

	rows := []Row{{Key: "2025-06-15", TotalTokens: 100, Cost: 0.1}}
	require.NoError(t, f.Format(rows))
	assert.Contains(t, buf.String(), "Range: 2025-06-15\n")
}
