package statusline

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// TerminalWidth returns the width of f when it is a terminal, then COLUMNS,
// then 0 (unlimited) when output goes to a pipe.
func TerminalWidth(f *os.File) int {
	if f != nil {
		if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
			return w
		}
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return w
		}
	}
	return 0
}
