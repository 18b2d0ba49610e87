// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/playback"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Library operations
	OpLibraryLoad   Op = "load music"
	OpLibraryScan   Op = "scan library"
	OpLibraryRemove Op = "remove track from library"

	// Playlist operations
	OpPlaylistCreate   Op = "create playlist"
	OpPlaylistAddTrack Op = "add track to playlist"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackToggle Op = "toggle playback"
	OpPlaybackSkip   Op = "change track"
	OpPlaybackSeek   Op = "seek"

	// Initialization
	OpInitialize Op = "initialize application"
)

// PermissionRequired is shown instead of a list when the catalog could not
// be read because access was not granted.
const PermissionRequired = "Storage permission required to load music"

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, catalog.ErrPermissionDenied) {
		return PermissionRequired
	}
	var perr *playback.PrepareError
	if errors.As(err, &perr) {
		if errors.Is(err, playback.ErrNoPlayableTrack) {
			return "No playable track in queue"
		}
		return fmt.Sprintf("Failed to %s '%s': %v", op, perr.Track.Title, perr.Err)
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
