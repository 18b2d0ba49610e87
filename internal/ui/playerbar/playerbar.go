// Package playerbar renders the mini player shown under the track list.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/playback"
	"github.com/llehouerou/tunedeck/internal/ui/render"
	"github.com/llehouerou/tunedeck/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	separator   = "   "
)

// Height is the rendered height: top border, content, bottom border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Playing  bool
	Paused   bool
	Title    string
	Artist   string
	Position time.Duration
	Duration time.Duration
}

// NewState builds a State from a session snapshot. Idle sessions render
// nothing, even when a track is still under the cursor.
func NewState(st playback.Status) State {
	if st.Track == nil || !st.State.IsActive() {
		return State{}
	}
	return State{
		Playing:  st.State == playback.StatePlaying,
		Paused:   st.State == playback.StatePaused,
		Title:    st.Track.Title,
		Artist:   st.Track.Artist,
		Position: st.Position,
		Duration: st.Duration,
	}
}

// Visible reports whether the bar has anything to show.
func (s State) Visible() bool {
	return s.Playing || s.Paused
}

// Render returns the player bar for the given width, or "" when idle.
func Render(s State, width int) string {
	if !s.Visible() {
		return ""
	}

	// border and padding
	innerWidth := max(width-6, 0)

	status := playSymbol
	if s.Paused {
		status = pauseSymbol
	}

	title := s.Title
	if title == "" {
		title = catalog.UnknownTitle
	}
	timeStr := catalog.FormatDuration(s.Position) + " / " + catalog.FormatDuration(s.Duration)

	sepWidth := lipgloss.Width(separator)
	fixed := lipgloss.Width(status+"  ") + lipgloss.Width(timeStr) + 2*sepWidth
	available := innerWidth - fixed - minBarWidth

	// Title first, the artist gets what is left.
	titleText := render.Truncate(title, max(available, 1))
	used := lipgloss.Width(titleText)
	var artistText string
	if room := available - used - sepWidth; room > 0 && s.Artist != "" {
		artistText = render.Truncate(s.Artist, room)
		used += sepWidth + lipgloss.Width(artistText)
	}

	barWidth := max(innerWidth-used-fixed, minBarWidth)

	var content strings.Builder
	content.WriteString(styles.T().TitleGradient(titleText))
	if artistText != "" {
		content.WriteString(separator)
		content.WriteString(artistStyle().Render(artistText))
	}
	content.WriteString(separator)
	content.WriteString(status)
	content.WriteString("  ")
	content.WriteString(ProgressBar(s.Position, s.Duration, barWidth))
	content.WriteString(separator)
	content.WriteString(timeStyle().Render(timeStr))

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}
