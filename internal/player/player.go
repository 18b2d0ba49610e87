// Package player wraps the audio output library behind a small engine
// contract so the playback session can be tested without a sound card.
package player

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extOGG  = ".ogg"
	extWAV  = ".wav"
)

// ErrUnsupportedFormat is returned by Prepare for sources the engine cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Engine turns a source into a playable instance.
type Engine interface {
	// Prepare opens and decodes source. The returned instance is not
	// started; a failure is returned, never raised.
	Prepare(source string) (Instance, error)
}

// Instance is one prepared source. At most one instance should be live at
// a time; callers Release it before preparing the next.
type Instance interface {
	Start()
	Pause()
	Resume()
	Playing() bool
	Position() time.Duration
	Duration() time.Duration
	// SeekTo jumps to an absolute position, clamped to the stream.
	SeekTo(pos time.Duration)
	// Finished is closed when the instance plays through to the end.
	// It is never closed for a released instance.
	Finished() <-chan struct{}
	Release()
}

// Supported reports whether the engine can decode the file extension of source.
func Supported(source string) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case extMP3, extFLAC, extOGG, extWAV:
		return true
	default:
		return false
	}
}

func clamp(pos, limit time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if limit > 0 && pos > limit {
		return limit
	}
	return pos
}
