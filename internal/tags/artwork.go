package tags

import (
	"os"
	"path/filepath"
	"strings"
)

var artworkNames = []string{"cover", "folder", "album", "front", "artwork"}

var artworkExts = []string{".jpg", ".jpeg", ".png"}

// FindArtwork returns the path of a cover image in the track's folder, or ""
// when there is none. Matching is case-insensitive.
func FindArtwork(trackPath string) string {
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			byName[strings.ToLower(e.Name())] = e.Name()
		}
	}

	for _, name := range artworkNames {
		for _, ext := range artworkExts {
			if real, ok := byName[name+ext]; ok {
				return filepath.Join(dir, real)
			}
		}
	}
	return ""
}
