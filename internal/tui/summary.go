package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderCounts renders row counts per table in the given order.
func RenderCounts(title string, order []string, counts map[string]int) string {
	width := 0
	for _, name := range order {
		width = max(width, lipgloss.Width(name))
	}

	var rows []string
	for _, name := range order {
		label := LabelStyle.Width(width + 2).Render(name)
		rows = append(rows, label+ValueStyle.Width(10).Render(fmt.Sprintf("%d", counts[name])))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), strings.Join(rows, "\n"))
	return BoxStyle.Render(body)
}
