// Package app contains the bubbletea model of the TUI.
package app

import (
	"time"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/errmsg"
	"github.com/llehouerou/tunedeck/internal/playback"
)

// TickMsg is sent periodically to poll the session for position.
type TickMsg time.Time

// StatusMsg carries a session snapshot taken off the UI goroutine.
// FromTick marks snapshots belonging to the poll loop.
type StatusMsg struct {
	Status   playback.Status
	FromTick bool
}

// CatalogLoadedMsg is sent when a catalog load finishes.
type CatalogLoadedMsg struct {
	Tracks []catalog.Track
	Err    error
}

// LibraryChangedMsg is sent when the index changed under a watched source.
type LibraryChangedMsg struct{}

// CommandDoneMsg reports the outcome of a session command run in a tea.Cmd.
type CommandDoneMsg struct {
	Op  errmsg.Op
	Err error
}

// StderrMsg wraps a line captured from C libraries.
type StderrMsg string

// Session callbacks, delivered through the Bridge.

// TrackChangedMsg is sent when the session starts a new track.
type TrackChangedMsg struct {
	Track catalog.Track
}

// PlayStateMsg is sent when the session starts or stops producing audio.
type PlayStateMsg struct {
	Playing bool
}

// SessionErrorMsg is sent for a track the session could not prepare.
type SessionErrorMsg struct {
	Err error
}

// bridgeClosedMsg is returned when the bridge channel was closed.
type bridgeClosedMsg struct{}
