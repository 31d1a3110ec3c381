package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-06-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("", time.UTC)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDate("06/15/2025", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestParseDateLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	d, err := parseDate("2025-06-15", tokyo)
	require.NoError(t, err)
	assert.Equal(t, tokyo, d.Location())
	assert.Equal(t, 0, d.Hour())
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"", time.Sunday},
		{"sunday", time.Sunday},
		{"Monday", time.Monday},
		{"SATURDAY", time.Saturday},
	}
	for _, tt := range tests {
		got, err := parseWeekday(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := parseWeekday("someday")
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	abs := expandPath("~/data")
	assert.False(t, strings.HasPrefix(abs, "~"))
	assert.True(t, strings.HasSuffix(abs, "data"))

	assert.Equal(t, "/tmp/x", expandPath("/tmp/x"))
}
