package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatNumber renders a token count in compact form (1.2K, 3.4M).
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatDuration renders a duration as "2h 15m" or "45m".
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatBurnRate renders a tokens/minute velocity in compact form.
func FormatBurnRate(rate float64) string {
	if rate < 1000 {
		return fmt.Sprintf("%.1f tokens/min", rate)
	} else if rate < 1000000 {
		return fmt.Sprintf("%.1fK tokens/min", rate/1000)
	}
	return fmt.Sprintf("%.1fM tokens/min", rate/1000000)
}

// FormatCurrency renders a USD amount with thousands separators.
func FormatCurrency(amount float64) string {
	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	if len(intPart) > 3 {
		chars := []rune(intPart)
		result := []rune{}
		for i := len(chars) - 1; i >= 0; i-- {
			if len(result) > 0 && len(result)%4 == 3 {
				result = append([]rune{','}, result...)
			}
			result = append([]rune{chars[i]}, result...)
		}
		intPart = string(result)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s", sign, intPart, decPart)
}

// GetDisplayWidth calculates the display width of a string, accounting for
// wide runes and emojis.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadDisplay pads text with spaces to the given display width. Text wider
// than the target is returned unchanged.
func PadDisplay(text string, width int, alignRight bool) string {
	gap := width - GetDisplayWidth(text)
	if gap <= 0 {
		return text
	}
	if alignRight {
		return strings.Repeat(" ", gap) + text
	}
	return text + strings.Repeat(" ", gap)
}
