// Package tags probes audio files for the metadata the media index stores.
package tags

import (
	"path/filepath"
	"strconv"
	"strings"
)

// File extensions the index keeps.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOGG  = ".ogg"
	ExtWAV  = ".wav"
)

// Tag is what a file says about itself. Empty strings mean the tag is absent.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	Genre       string
	TrackNumber int
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOGG, ExtWAV:
		return true
	default:
		return false
	}
}

func (t *Tag) trim() {
	t.Title = strings.TrimSpace(t.Title)
	t.Artist = strings.TrimSpace(t.Artist)
	t.Album = strings.TrimSpace(t.Album)
	t.Genre = strings.TrimSpace(t.Genre)
}

// taglibTags wraps a taglib result map.
type taglibTags map[string][]string

// get returns the first value for any of the given keys.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// number parses "N" or "N/M" and returns N.
func (t taglibTags) number(key string) int {
	return leadingNumber(t.get(key))
}

func leadingNumber(s string) int {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
