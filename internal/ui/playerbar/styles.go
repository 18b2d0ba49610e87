package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tunedeck/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return styles.T().S().Panel
}

func artistStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func timeStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func progressBarFilled() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Primary)
}

func progressBarEmpty() lipgloss.Style {
	return styles.T().S().Subtle
}
