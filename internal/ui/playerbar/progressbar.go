package playerbar

import (
	"strings"
	"time"
)

const minBarWidth = 5

// Ratio returns how far position is into duration, clamped to [0, 1].
func Ratio(position, duration time.Duration) float64 {
	if duration <= 0 || position <= 0 {
		return 0
	}
	return min(float64(position)/float64(duration), 1)
}

// ProgressBar renders a width-cell bar filled according to Ratio.
func ProgressBar(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(float64(width) * Ratio(position, duration))
	return progressBarFilled().Render(strings.Repeat("━", filled)) +
		progressBarEmpty().Render(strings.Repeat("─", width-filled))
}
