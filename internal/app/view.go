package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/keymap"
	"github.com/llehouerou/tunedeck/internal/playlists"
	"github.com/llehouerou/tunedeck/internal/ui"
	"github.com/llehouerou/tunedeck/internal/ui/headerbar"
	"github.com/llehouerou/tunedeck/internal/ui/playerbar"
	"github.com/llehouerou/tunedeck/internal/ui/render"
	"github.com/llehouerou/tunedeck/internal/ui/styles"
)

const playingMarker = "▶ "

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	sections := []string{m.renderHeader(), m.renderPanel()}
	if bar := playerbar.NewState(m.status); bar.Visible() {
		sections = append(sections, playerbar.Render(bar, m.width))
	}
	sections = append(sections, m.renderStatusLine())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// resize recomputes list heights after the window or the player bar changed.
func (m *Model) resize() {
	h := m.listHeight()
	m.tracks.SetHeight(h)
	m.playlists.SetHeight(h)
}

func (m Model) panelHeight() int {
	h := m.height - headerbar.Height - ui.StatusHeight
	if playerbar.NewState(m.status).Visible() {
		h -= playerbar.Height
	}
	return max(h, ui.BorderHeight)
}

func (m Model) listHeight() int {
	return m.panelHeight() - ui.BorderHeight
}

func (m Model) renderHeader() string {
	tabs := []headerbar.Tab{
		{Key: "T", Name: "Tracks", Count: m.tracks.Len()},
		{Key: "P", Name: "Playlists", Count: m.deps.Playlists.Len()},
	}
	right := ""
	if m.loading {
		right = "Loading library…"
	}
	return headerbar.Render(tabs, int(m.view), right, m.width)
}

func (m Model) renderPanel() string {
	inner := max(m.width-2, 0)
	var body string
	switch {
	case m.input.Active():
		body = m.input.View()
	case m.view == ViewPlaylists:
		body = m.renderPlaylists(inner)
	default:
		body = m.renderTracks(inner)
	}

	style := styles.T().S().Panel.
		Width(inner).
		Height(m.listHeight())
	if m.input.Active() {
		style = style.BorderForeground(styles.T().BorderFocus)
	}
	return style.Render(body)
}

func (m Model) renderTracks(width int) string {
	s := styles.T().S()
	if m.tracks.Len() == 0 {
		if m.loading {
			return s.Muted.Render("Loading library…")
		}
		return s.Muted.Render("No tracks found")
	}

	var playingID int64 = -1
	if m.status.Track != nil {
		playingID = m.status.Track.ID
	}

	items := m.tracks.Items()
	start, end := m.tracks.VisibleRange()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := items[i]
		row := trackRow(t, t.ID == playingID, width)
		switch {
		case i == m.tracks.Pos():
			row = s.Cursor.Width(width).Render(row)
		case t.ID == playingID:
			row = s.Playing.Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// trackRow lays out title, artist and duration columns.
func trackRow(t catalog.Track, playing bool, width int) string {
	gap := strings.Repeat(" ", ui.ColumnGap)
	rest := max(width-ui.DurationWidth-2*ui.ColumnGap, 2)
	titleW := rest * 3 / 5
	artistW := rest - titleW

	title := "  " + t.Title
	if playing {
		title = playingMarker + t.Title
	}
	dur := t.DurationFormatted()
	dur = strings.Repeat(" ", max(ui.DurationWidth-len(dur), 0)) + dur

	return render.Fit(title, titleW) + gap + render.Fit(t.Artist, artistW) + gap + dur
}

func (m Model) renderPlaylists(width int) string {
	s := styles.T().S()
	if m.playlists.Len() == 0 {
		return s.Muted.Render("No playlists yet, press c to create one")
	}

	items := m.playlists.Items()
	start, end := m.playlists.VisibleRange()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := playlistRow(items[i], width)
		if i == m.playlists.Pos() {
			row = s.Cursor.Width(width).Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func playlistRow(p playlists.Playlist, width int) string {
	gap := strings.Repeat(" ", ui.ColumnGap)
	count := english.Plural(p.Len(), "track", "")
	created := humanize.Time(p.CreatedAt())
	nameW := max(width-lipgloss.Width(count)-lipgloss.Width(created)-2*ui.ColumnGap, 1)
	return render.Fit(p.Name, nameW) + gap + count + gap + created
}

func (m Model) renderStatusLine() string {
	s := styles.T().S()
	switch {
	case m.errorMsg != "":
		return s.Error.Render(render.Truncate(m.errorMsg, m.width))
	case m.notice != "":
		return s.Warning.Render(render.Truncate(m.notice, m.width))
	}

	contexts := []string{"playback", "tracks"}
	if m.view == ViewPlaylists {
		contexts = []string{"playback", "playlists"}
	}
	return s.Subtle.Render(render.Truncate(keymap.Help(contexts...), m.width))
}
