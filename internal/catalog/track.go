// Package catalog loads the ordered track snapshot shown in the library list.
package catalog

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Fallbacks used when the media index has no value for a field.
const (
	UnknownTitle  = "Unknown"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Track describes one playable audio item. Tracks are values and are never
// mutated after the loader built them.
type Track struct {
	ID       int64
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	Source   string // file path handed to the playback engine
	Artwork  string // optional image path, empty if none
}

// DurationFormatted renders the track length as m:ss.
func (t Track) DurationFormatted() string {
	return FormatDuration(t.Duration)
}

// FormatDuration renders d as m:ss, truncating to whole seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// IndexOf returns the position of the track with the given id, or -1.
func IndexOf(tracks []Track, id int64) int {
	for i, t := range tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Without returns a copy of tracks with every entry matching id removed.
func Without(tracks []Track, id int64) []Track {
	return lo.Reject(tracks, func(t Track, _ int) bool {
		return t.ID == id
	})
}
