// Package headerbar renders the one-line view switcher at the top.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/tunedeck/internal/ui/render"
	"github.com/llehouerou/tunedeck/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// Tab is one entry of the switcher.
type Tab struct {
	Key   string
	Name  string
	Count int // shown next to the name, hidden when negative
}

func activeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary).Bold(true)
}

func inactiveStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func separatorStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

// Render lays tabs out left to right with the active one highlighted and
// puts right-aligned text (status, hints) at the far end.
func Render(tabs []Tab, active int, right string, width int) string {
	if width < 20 {
		return ""
	}

	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := t.Key + " " + t.Name
		if t.Count >= 0 {
			label += " (" + humanize.Comma(int64(t.Count)) + ")"
		}
		style := inactiveStyle()
		if i == active {
			style = activeStyle()
		}
		parts = append(parts, style.Render(label))
	}
	left := strings.Join(parts, separatorStyle().Render(" │ "))

	room := width - lipgloss.Width(left) - 1
	if room <= 0 || right == "" {
		return left
	}
	return render.Row(left, separatorStyle().Render(render.Truncate(right, room)), width)
}
