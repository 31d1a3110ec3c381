package formatter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVFormatterFormat(t *testing.T) {
	f := NewCSVFormatter("Date", false)
	var buf bytes.Buffer
	f.SetOutput(&buf)

	rows := []Row{
		{
			Key:           "2025-06-15",
			Models:        []string{"claude-sonnet-4-20250514"},
			InputTokens:   1000,
			OutputTokens:  500,
			CacheCreation: 100,
			CacheRead:     50,
			TotalTokens:   1650,
			Cost:          0.0225,
		},
	}
	require.NoError(t, f.Format(rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Date", records[0][0])
	assert.Equal(t, "Cost (USD)", records[0][7])
	assert.Equal(t, "2025-06-15", records[1][0])
	assert.Equal(t, "sonnet-4", records[1][1])
	assert.Equal(t, "1000", records[1][2])
	assert.Equal(t, "0.02", records[1][7])
}

func TestCSVFormatterBreakdownRows(t *testing.T) {
	f := NewCSVFormatter("Date", false)
	var buf bytes.Buffer
	f.SetOutput(&buf)

	rows := []Row{
		{
			Key:           "2025-06-15",
			Models:        []string{"claude-sonnet-4-20250514"},
			TotalTokens:   1500,
			Cost:          0.03,
			ShowBreakdown: true,
			ModelDetails: []ModelDetail{
				{Model: "claude-sonnet-4-20250514", InputTokens: 1000, TotalTokens: 1500, Cost: 0.03},
			},
		},
	}
	require.NoError(t, f.Format(rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Contains(t, records[2][0], "└─")
	assert.Equal(t, "sonnet-4", records[2][1])
}

func TestCSVFormatterProjectColumn(t *testing.T) {
	f := NewCSVFormatter("Date", true)
	var buf bytes.Buffer
	f.SetOutput(&buf)

	rows := []Row{
		{Key: "2025-06-15", Project: "alpha", TotalTokens: 100, Cost: 0.01},
	}
	require.NoError(t, f.Format(rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Project", records[0][1])
	assert.Equal(t, "alpha", records[1][1])
}
