// Package format provides shared string and time formatting utilities.
package format

import (
	"fmt"
	"strings"
)

// TruncateWithEllipsis truncates s to maxWidth runes, ending in "..." when
// it had to cut. Below 4 runes there is no room for the ellipsis and s is
// hard-truncated.
func TruncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}
	if maxWidth < 4 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-3]) + "..."
}

// JoinNonEmpty joins the non-empty parts with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Percent formats a load percentage with one decimal, e.g. "54.0%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
