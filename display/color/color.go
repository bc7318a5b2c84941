// Package color decides whether cpu-pulse output is colored.
//
// It follows the NO_COLOR convention (https://no-color.org/) and disables
// color when the output is not a terminal. When color is off, lipgloss is
// switched to the Ascii profile so every styled render is plain text.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsTerminal reports whether f is an interactive terminal, including
// Cygwin/MSYS pseudo terminals.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ShouldDisableColor reports whether output to out must be plain. forced is
// the user's explicit choice (-no-color or display.no_color).
func ShouldDisableColor(forced bool, out *os.File) bool {
	if forced {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !IsTerminal(out)
}

// Apply configures the global lipgloss renderer for out and returns true if
// color is enabled.
func Apply(forced bool, out *os.File) bool {
	if ShouldDisableColor(forced, out) {
		ForceDisable()
		return false
	}
	return true
}

// ForceDisable switches lipgloss to the Ascii profile unconditionally.
// Tests use it to get stable plain-text renders.
func ForceDisable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	var result []byte
	inEscape := false
	for i := 0; i < len(s); i++ {
		if inEscape {
			if (s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z') || s[i] == '~' {
				inEscape = false
			}
			continue
		}
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}
