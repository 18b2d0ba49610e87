// internal/playback/state.go
package playback

import (
	"fmt"
	"time"

	"github.com/llehouerou/tunedeck/internal/catalog"
)

// State represents the session state.
//
//	         submit/next/prev
//	┌──────┐ ──────────────▶ ┌─────────┐
//	│ Idle │                 │ Playing │ ◀──┐ next/prev/complete
//	└──────┘ ◀────────────── └─────────┘ ───┘
//	    ▲        stop          │     ▲
//	    │                pause │     │ resume
//	    │       stop           ▼     │
//	    └───────────────────── ┌─────────┐
//	                           │ Paused  │
//	                           └─────────┘
//
// Idle may still hold a current track (after Stop); play/pause then
// prepares it again.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if an engine instance is loaded.
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Status is a consistent snapshot of the session, taken in one actor turn.
type Status struct {
	Track    *catalog.Track
	State    State
	Position time.Duration
	Duration time.Duration
	Index    int
	QueueLen int
}

// Policy decides what happens when the engine cannot prepare a track.
type Policy int

const (
	// SkipUnplayable advances through the queue, at most one full cycle,
	// until a track prepares.
	SkipUnplayable Policy = iota
	// StopOnError goes idle on the first failure.
	StopOnError
)

func (p Policy) String() string {
	switch p {
	case SkipUnplayable:
		return "skip"
	case StopOnError:
		return "stop"
	default:
		return "unknown"
	}
}

// ParsePolicy maps the config spelling ("skip", "stop") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "skip":
		return SkipUnplayable, nil
	case "stop":
		return StopOnError, nil
	default:
		return SkipUnplayable, fmt.Errorf("unknown prepare error policy %q", s)
	}
}
