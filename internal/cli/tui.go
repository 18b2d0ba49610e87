package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunedeck/internal/app"
	"github.com/llehouerou/tunedeck/internal/mediaindex"
	"github.com/llehouerou/tunedeck/internal/mpris"
	"github.com/llehouerou/tunedeck/internal/notify"
	"github.com/llehouerou/tunedeck/internal/playback"
	"github.com/llehouerou/tunedeck/internal/player"
	"github.com/llehouerou/tunedeck/internal/playlists"
	"github.com/llehouerou/tunedeck/internal/stderr"
)

// watchDebounce is how long the library must be quiet before a rescan.
const watchDebounce = 2 * time.Second

func runTUI() error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	cfg, log := e.cfg, e.log

	// Capture stderr so C library messages don't corrupt the TUI
	if err := stderr.Start(log); err != nil {
		log.Warn("stderr capture unavailable", "err", err)
	}
	defer stderr.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy, err := cfg.PreparePolicy()
	if err != nil {
		log.Warn("using default prepare error policy", "err", err)
	}
	opts := []playback.Option{playback.WithPolicy(policy), playback.WithLogger(log)}

	var transport *notify.Transport
	if cfg.Notifications.Enabled {
		n, err := notify.New()
		if err != nil {
			log.Warn("notifications unavailable", "err", err)
		} else {
			defer n.Shutdown()
			transport = notify.NewTransport(n, log)
			opts = append(opts, playback.WithNotifier(transport))
		}
	}

	session := playback.New(player.NewBeep(), opts...)
	defer session.Close()
	if transport != nil {
		transport.Route(session.Dispatch)
	}

	if cfg.MPRIS.Enabled {
		adapter, err := mpris.New(session, log)
		if err != nil {
			log.Warn("mpris unavailable", "err", err)
		} else {
			defer adapter.Close()
		}
	}

	var changed chan struct{}
	if cfg.WatchSources && cfg.HasLibrarySources() {
		changed = make(chan struct{}, 1)
		go watchLibrary(ctx, e, changed)
	}

	m := app.New(app.Deps{
		Session:        session,
		Loader:         e.loader(),
		Playlists:      playlists.New(),
		SeekStep:       cfg.SeekStep(),
		Log:            log,
		Refresh:        refresher(e),
		LibraryChanged: changed,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// refresher rescans the library folders before the catalog is reloaded.
func refresher(e *env) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if !e.cfg.HasLibrarySources() {
			return nil
		}
		stats, err := e.index.Scan(ctx, e.cfg.LibrarySources, nil)
		if err != nil {
			return err
		}
		e.log.Info("library scanned", "found", stats.Found, "added", stats.Added, "removed", stats.Removed)
		return nil
	}
}

// watchLibrary signals changed after every rescan that touched the index.
// Signals coalesce while the UI has not picked up the previous one.
func watchLibrary(ctx context.Context, e *env, changed chan<- struct{}) {
	err := e.index.Watch(ctx, e.cfg.LibrarySources, watchDebounce, func(stats mediaindex.ScanStats, err error) {
		if err != nil || !touched(stats) {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		e.log.Warn("library watch stopped", "err", err)
	}
}

func touched(s mediaindex.ScanStats) bool {
	return s.Added+s.Updated+s.Removed > 0
}
