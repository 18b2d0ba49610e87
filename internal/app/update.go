package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunedeck/internal/app/handler"
	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/errmsg"
	"github.com/llehouerou/tunedeck/internal/keymap"
	"github.com/llehouerou/tunedeck/internal/playback"
	"github.com/llehouerou/tunedeck/internal/ui/textinput"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.input.Active() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case textinput.ResultMsg:
		return m.handlePlaylistName(msg)

	case CatalogLoadedMsg:
		return m.handleCatalogLoaded(msg)

	case LibraryChangedMsg:
		return m, tea.Batch(m.loadCatalog(false), m.watchLibrary())

	case TickMsg:
		return m, m.pollStatus(true)

	case StatusMsg:
		m.status = msg.Status
		m.resize()
		if !msg.FromTick {
			return m, nil
		}
		if m.status.State.IsActive() {
			return m, TickCmd()
		}
		m.polling = false
		return m, nil

	case TrackChangedMsg:
		m.errorMsg = ""
		m.status.Track = &msg.Track
		return m, tea.Batch(m.bridge.Wait(), m.refreshStatus())

	case PlayStateMsg:
		return m, tea.Batch(m.bridge.Wait(), m.refreshStatus())

	case SessionErrorMsg:
		m.log.Warn("track could not be played", "err", msg.Err)
		m.errorMsg = errmsg.Format(errmsg.OpPlaybackStart, msg.Err)
		return m, m.bridge.Wait()

	case bridgeClosedMsg:
		return m, nil

	case CommandDoneMsg:
		if !isSilent(msg.Err) && !errors.Is(msg.Err, playback.ErrClosed) {
			m.log.Warn("session command failed", "op", string(msg.Op), "err", msg.Err)
			m.errorMsg = errmsg.Format(msg.Op, msg.Err)
		}
		return m, m.refreshStatus()

	case StderrMsg:
		m.errorMsg = string(msg)
		return m, WatchStderr()
	}

	return m, nil
}

// refreshStatus takes a one-off snapshot and makes sure the poll loop runs.
func (m *Model) refreshStatus() tea.Cmd {
	cmds := []tea.Cmd{m.pollStatus(false)}
	if !m.polling {
		m.polling = true
		cmds = append(cmds, m.pollStatus(true))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Resolve(msg.String())
	if handled, cmd := handler.Chain(action,
		m.handleGlobalKeys,
		m.handlePlaybackKeys,
		m.handleViewKeys,
	); handled {
		return m, cmd
	}

	switch m.view {
	case ViewTracks:
		m.tracks.Update(msg)
	case ViewPlaylists:
		m.playlists.Update(msg)
	}
	return m, nil
}

func (m *Model) handleGlobalKeys(action keymap.Action) handler.Result {
	switch action { //nolint:exhaustive // only handling global actions
	case keymap.ActionQuit:
		return handler.Handled(tea.Quit)
	case keymap.ActionViewTracks:
		m.showTracks()
		return handler.HandledNoCmd
	case keymap.ActionViewPlaylists:
		m.showPlaylists()
		return handler.HandledNoCmd
	case keymap.ActionCancel:
		if m.view == ViewPlaylists {
			m.showTracks()
		}
		m.notice = ""
		m.errorMsg = ""
		return handler.HandledNoCmd
	case keymap.ActionReloadCatalog:
		m.loading = true
		m.errorMsg = ""
		return handler.Handled(m.loadCatalog(true))
	case keymap.ActionCreatePlaylist:
		return handler.Handled(m.input.Start("New playlist", "Name", m.width))
	}
	return handler.NotHandled
}

func (m *Model) handlePlaybackKeys(action keymap.Action) handler.Result {
	s := m.deps.Session
	switch action { //nolint:exhaustive // only handling playback actions
	case keymap.ActionPlayPause:
		return handler.Handled(sessionCmd(errmsg.OpPlaybackToggle, s.PlayPause))
	case keymap.ActionStop:
		return handler.Handled(sessionCmd(errmsg.OpPlaybackToggle, s.Stop))
	case keymap.ActionNextTrack:
		return handler.Handled(sessionCmd(errmsg.OpPlaybackSkip, s.PlayNext))
	case keymap.ActionPrevTrack:
		return handler.Handled(sessionCmd(errmsg.OpPlaybackSkip, s.PlayPrevious))
	case keymap.ActionSeekBack:
		return handler.Handled(m.seek(-m.deps.SeekStep))
	case keymap.ActionSeekForward:
		return handler.Handled(m.seek(m.deps.SeekStep))
	}
	return handler.NotHandled
}

func (m *Model) handleViewKeys(action keymap.Action) handler.Result {
	if m.view == ViewPlaylists {
		if action == keymap.ActionPlayFromHere {
			return handler.Handled(m.activatePlaylist())
		}
		return handler.NotHandled
	}

	switch action { //nolint:exhaustive // only handling track list actions
	case keymap.ActionPlayFromHere:
		if m.tracks.Len() == 0 {
			return handler.HandledNoCmd
		}
		tracks := m.tracks.Items()
		start := m.tracks.Pos()
		s := m.deps.Session
		return handler.Handled(sessionCmd(errmsg.OpPlaybackStart, func() error {
			return s.SubmitQueue(tracks, start)
		}))
	case keymap.ActionAddToPlaylist:
		return handler.Handled(m.startAddToPlaylist())
	case keymap.ActionRemoveFromLibrary:
		m.removeSelected()
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}

func (m Model) seek(delta time.Duration) tea.Cmd {
	s := m.deps.Session
	return sessionCmd(errmsg.OpPlaybackSeek, func() error {
		st := s.Status()
		if st.Track == nil || !st.State.IsActive() {
			return nil
		}
		return s.SeekTo(max(st.Position+delta, 0))
	})
}

func (m *Model) startAddToPlaylist() tea.Cmd {
	t, ok := m.tracks.Selected()
	if !ok {
		return nil
	}
	m.pendingAdd = &t
	if m.deps.Playlists.Len() == 0 {
		return m.input.Start("New playlist for "+t.Title, "Name", m.width)
	}
	m.showPlaylists()
	m.notice = "Pick a playlist for " + t.Title
	return nil
}

func (m *Model) activatePlaylist() tea.Cmd {
	pl, ok := m.playlists.Selected()
	if !ok {
		return nil
	}

	if m.pendingAdd != nil {
		t := *m.pendingAdd
		m.pendingAdd = nil
		if _, err := m.deps.Playlists.AddTrack(pl.ID, t); err != nil {
			m.errorMsg = errmsg.FormatWith(errmsg.OpPlaylistAddTrack, pl.Name, err)
			return nil
		}
		m.refreshPlaylists()
		m.showTracks()
		m.notice = "Added " + t.Title + " to " + pl.Name
		return nil
	}

	if pl.Len() == 0 {
		m.notice = pl.Name + " is empty"
		return nil
	}
	tracks := pl.Tracks
	s := m.deps.Session
	return sessionCmd(errmsg.OpPlaybackStart, func() error {
		return s.SubmitQueue(tracks, 0)
	})
}

func (m Model) handlePlaylistName(msg textinput.ResultMsg) (tea.Model, tea.Cmd) {
	if msg.Canceled {
		m.pendingAdd = nil
		return m, nil
	}

	pl, err := m.deps.Playlists.Create(msg.Text)
	if err != nil {
		m.pendingAdd = nil
		m.errorMsg = errmsg.Format(errmsg.OpPlaylistCreate, err)
		return m, nil
	}
	m.errorMsg = ""
	m.notice = "Created playlist " + pl.Name

	if m.pendingAdd != nil {
		t := *m.pendingAdd
		m.pendingAdd = nil
		if _, err := m.deps.Playlists.AddTrack(pl.ID, t); err != nil {
			m.errorMsg = errmsg.FormatWith(errmsg.OpPlaylistAddTrack, pl.Name, err)
		} else {
			m.notice = "Added " + t.Title + " to " + pl.Name
		}
	}
	m.refreshPlaylists()
	return m, nil
}

func (m Model) handleCatalogLoaded(msg CatalogLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.Err != nil {
		m.log.Warn("catalog not loaded", "err", msg.Err)
		m.errorMsg = errmsg.Format(errmsg.OpLibraryLoad, msg.Err)
		m.tracks.SetItems(nil)
		return m, nil
	}
	m.tracks.SetItems(msg.Tracks)
	return m, nil
}

func (m *Model) removeSelected() {
	t, ok := m.tracks.Selected()
	if !ok {
		return
	}
	m.tracks.SetItems(catalog.Without(m.tracks.Items(), t.ID))
	m.notice = "Removed " + t.Title + " from library"
}

func (m *Model) showTracks() {
	m.view = ViewTracks
	m.pendingAdd = nil
}

func (m *Model) showPlaylists() {
	m.view = ViewPlaylists
	m.refreshPlaylists()
}

func (m *Model) refreshPlaylists() {
	m.playlists.SetItems(m.deps.Playlists.List())
}
