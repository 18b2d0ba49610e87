package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunedeck/internal/errmsg"
	"github.com/llehouerou/tunedeck/internal/stderr"
)

// PollInterval is how often the player bar position refreshes.
const PollInterval = 500 * time.Millisecond

// TickCmd returns a command that sends TickMsg after PollInterval.
func TickCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// WatchStderr returns a command that waits for stderr output from C libraries.
func WatchStderr() tea.Cmd {
	return waitForChannel(stderr.Messages, func(line string, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return StderrMsg(line)
	})
}

// watchLibrary waits for the next change notification from the index watcher.
func (m Model) watchLibrary() tea.Cmd {
	return waitForChannel(m.deps.LibraryChanged, func(_ struct{}, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return LibraryChangedMsg{}
	})
}

// pollStatus reads a session snapshot.
func (m Model) pollStatus(fromTick bool) tea.Cmd {
	s := m.deps.Session
	return func() tea.Msg {
		return StatusMsg{Status: s.Status(), FromTick: fromTick}
	}
}

// loadCatalog refreshes the index when a refresher is set, then loads
// the catalog snapshot.
func (m Model) loadCatalog(refresh bool) tea.Cmd {
	loader := m.deps.Loader
	refresher := m.deps.Refresh
	log := m.log
	return func() tea.Msg {
		ctx := context.Background()
		if refresh && refresher != nil {
			if err := refresher(ctx); err != nil {
				log.Warn("library refresh failed", "err", err)
			}
		}
		tracks, err := loader.Load(ctx)
		return CatalogLoadedMsg{Tracks: tracks, Err: err}
	}
}

// sessionCmd runs a blocking session command off the UI goroutine.
func sessionCmd(op errmsg.Op, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return CommandDoneMsg{Op: op, Err: fn()}
	}
}

// isSilent reports errors that need no message in the status line.
func isSilent(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}
