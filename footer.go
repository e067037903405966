package sifter

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
)

// RenderFooter renders a footer with record counts and the source name.
// Counts show as "-" while loading.
func RenderFooter(total, filtered int, loading bool, name string, width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	totalStr, filteredStr := "-", "-"
	if !loading {
		totalStr = humanize.Comma(int64(total))
		filteredStr = humanize.Comma(int64(filtered))
	}

	left := fmt.Sprintf("Total: %s  Filtered: %s", totalStr, filteredStr)
	right := name

	// Calculate padding
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	footer := style.Render(left + strings.Repeat(" ", padding) + right)
	return footer
}
