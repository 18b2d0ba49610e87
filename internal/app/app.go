package app

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/keymap"
	"github.com/llehouerou/tunedeck/internal/logging"
	"github.com/llehouerou/tunedeck/internal/playback"
	"github.com/llehouerou/tunedeck/internal/playlists"
	"github.com/llehouerou/tunedeck/internal/ui"
	"github.com/llehouerou/tunedeck/internal/ui/list"
	"github.com/llehouerou/tunedeck/internal/ui/textinput"
)

// ViewMode selects the main panel.
type ViewMode int

const (
	ViewTracks ViewMode = iota
	ViewPlaylists
)

// CatalogLoader loads the track snapshot.
type CatalogLoader interface {
	Load(ctx context.Context) ([]catalog.Track, error)
}

// Deps are the collaborators the TUI drives.
type Deps struct {
	Session   *playback.Session
	Loader    CatalogLoader
	Playlists *playlists.Store
	SeekStep  time.Duration
	Log       *slog.Logger

	// Refresh rescans the library before a reload, optional.
	Refresh func(ctx context.Context) error
	// LibraryChanged fires after the watcher rescanned, optional.
	LibraryChanged <-chan struct{}
}

// Model is the root application model.
type Model struct {
	deps   Deps
	log    *slog.Logger
	keys   *keymap.Resolver
	bridge *Bridge

	view      ViewMode
	tracks    list.Model[catalog.Track]
	playlists list.Model[playlists.Playlist]
	input     textinput.Model

	// pendingAdd is the track waiting for a playlist to be picked.
	pendingAdd *catalog.Track

	status   playback.Status
	polling  bool
	loading  bool
	notice   string
	errorMsg string

	width  int
	height int
}

// New creates the model and attaches it to the session's callbacks.
func New(deps Deps) Model {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.SeekStep <= 0 {
		deps.SeekStep = 5 * time.Second
	}
	if deps.Playlists == nil {
		deps.Playlists = playlists.New()
	}

	bridge := NewBridge(32)
	bridge.Attach(deps.Session)

	return Model{
		deps:      deps,
		log:       deps.Log,
		keys:      keymap.Default(),
		bridge:    bridge,
		tracks:    list.New[catalog.Track](ui.ScrollMargin),
		playlists: list.New[playlists.Playlist](ui.ScrollMargin),
		input:     textinput.New(),
		loading:   true,
		polling:   true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCatalog(true),
		m.bridge.Wait(),
		m.pollStatus(true),
		WatchStderr(),
		m.watchLibrary(),
	)
}

// Close detaches the model from the session.
func (m Model) Close() {
	m.bridge.Detach(m.deps.Session)
}

// Tracks returns the current catalog snapshot.
func (m Model) Tracks() []catalog.Track {
	return m.tracks.Items()
}
