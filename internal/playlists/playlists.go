// Package playlists keeps named, user-created groupings of tracks in memory.
package playlists

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/tunedeck/internal/catalog"
)

var (
	// ErrEmptyName is returned when a playlist name is blank after trimming.
	ErrEmptyName = errors.New("playlist name cannot be empty")
	// ErrNotFound is returned for an unknown playlist id.
	ErrNotFound = errors.New("playlist not found")
)

// Playlist is a named ordered list of tracks. ID is the creation time in
// Unix milliseconds.
type Playlist struct {
	ID     int64
	Name   string
	Tracks []catalog.Track
}

// CreatedAt returns the creation time encoded in the id.
func (p Playlist) CreatedAt() time.Time {
	return time.UnixMilli(p.ID)
}

// Len returns the number of tracks.
func (p Playlist) Len() int {
	return len(p.Tracks)
}

// Store holds playlists for the lifetime of the process.
type Store struct {
	mu        sync.RWMutex
	playlists []*Playlist
	lastID    int64
	now       func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// Create adds a playlist with the trimmed name and no tracks.
func (s *Store) Create(name string) (Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Playlist{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Two creations in the same millisecond still get distinct ids.
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	pl := &Playlist{ID: id, Name: name, Tracks: []catalog.Track{}}
	s.playlists = append(s.playlists, pl)
	return pl.clone(), nil
}

// AddTrack appends track to the playlist. Duplicates are allowed.
func (s *Store) AddTrack(id int64, track catalog.Track) (Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pl := s.find(id)
	if pl == nil {
		return Playlist{}, ErrNotFound
	}
	pl.Tracks = append(pl.Tracks, track)
	return pl.clone(), nil
}

// Get returns a copy of the playlist with the given id.
func (s *Store) Get(id int64) (Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pl := s.find(id)
	if pl == nil {
		return Playlist{}, ErrNotFound
	}
	return pl.clone(), nil
}

// List returns copies of all playlists in creation order.
func (s *Store) List() []Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Playlist, len(s.playlists))
	for i, pl := range s.playlists {
		result[i] = pl.clone()
	}
	return result
}

// Len returns the number of playlists.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.playlists)
}

func (s *Store) find(id int64) *Playlist {
	for _, pl := range s.playlists {
		if pl.ID == id {
			return pl
		}
	}
	return nil
}

func (p *Playlist) clone() Playlist {
	tracks := make([]catalog.Track, len(p.Tracks))
	copy(tracks, p.Tracks)
	return Playlist{ID: p.ID, Name: p.Name, Tracks: tracks}
}
