// Package display holds terminal-geometry helpers shared by the text
// formatters.
package display

import (
	"os"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// MaxWidth returns the usable terminal width with a fallback for pipes and
// very narrow terminals.
func MaxWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth < 60 {
		return 120
	}
	return termWidth
}

// Truncate shortens a string to the given display width, appending an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
