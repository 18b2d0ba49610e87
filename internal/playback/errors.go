package playback

import (
	"errors"
	"fmt"

	"github.com/llehouerou/tunedeck/internal/catalog"
)

var (
	ErrInvalidQueue    = errors.New("queue must be non-empty with a start index inside it")
	ErrNoPlayableTrack = errors.New("no playable track in queue")
	ErrUnknownAction   = errors.New("unknown transport action")
	ErrClosed          = errors.New("playback session closed")
)

// PrepareError reports a track the engine could not prepare.
type PrepareError struct {
	Track catalog.Track
	Err   error
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("cannot play %q: %v", e.Track.Title, e.Err)
}

func (e *PrepareError) Unwrap() error {
	return e.Err
}
