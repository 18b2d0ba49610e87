package mediaindex

import (
	"strings"
	"time"

	"github.com/llehouerou/tunedeck/internal/tags"
)

// Probed is what the scanner stores for one file.
type Probed struct {
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
	Artwork  string
	IsMusic  bool
}

// ProbeFunc reads the metadata of one file.
type ProbeFunc func(path string) (Probed, error)

// Genres that mark spoken-word content rather than music.
var nonMusicGenres = map[string]bool{
	"podcast":   true,
	"audiobook": true,
	"speech":    true,
}

// Probe reads tags and duration. A file whose tags cannot be read is still
// indexed with empty (NULL) fields; only a missing duration is an error.
func Probe(path string) (Probed, error) {
	p := Probed{IsMusic: true, Artwork: tags.FindArtwork(path)}

	if t, err := tags.Read(path); err == nil {
		p.Title, p.Artist, p.Album = t.Title, t.Artist, t.Album
		p.IsMusic = !nonMusicGenres[strings.ToLower(t.Genre)]
	}

	d, err := tags.ReadDuration(path)
	if err != nil {
		return p, err
	}
	p.Duration = d
	return p, nil
}
