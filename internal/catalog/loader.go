package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// ErrPermissionDenied is returned by Load when read access to the media
// has not been granted. The index is not queried in that case.
var ErrPermissionDenied = errors.New("catalog: media read permission not granted")

// OrderBy selects the column a query is sorted on.
type OrderBy int

const (
	OrderByNone OrderBy = iota
	OrderByTitle
	OrderByArtist
	OrderByAlbum
)

// Query holds the request parameters sent to the media index.
type Query struct {
	MusicOnly bool
	OrderBy   OrderBy
}

// Record is a raw row from the media index. Nil fields are absent.
type Record struct {
	ID         int64
	Title      *string
	Artist     *string
	Album      *string
	DurationMS int64
	Source     string
	Artwork    *string
}

// Index is the external media index queried by the loader.
type Index interface {
	Query(ctx context.Context, q Query) ([]Record, error)
}

// Permission reports whether media may be read.
type Permission interface {
	Granted() bool
}

// Loader maps media index records into an ordered track snapshot.
type Loader struct {
	index      Index
	permission Permission
	log        *slog.Logger
}

// NewLoader creates a loader. A nil logger discards log output.
func NewLoader(index Index, permission Permission, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{index: index, permission: permission, log: log}
}

// Load returns every music track sorted by title ascending.
//
// The only error is ErrPermissionDenied. An unreachable or failing index
// yields an empty snapshot.
func (l *Loader) Load(ctx context.Context) ([]Track, error) {
	if l.permission != nil && !l.permission.Granted() {
		return nil, ErrPermissionDenied
	}
	if l.index == nil {
		l.log.Warn("catalog load skipped", "reason", "no media index")
		return []Track{}, nil
	}

	records, err := l.index.Query(ctx, Query{MusicOnly: true, OrderBy: OrderByTitle})
	if err != nil {
		l.log.Warn("catalog load failed", "err", err)
		return []Track{}, nil
	}

	tracks := lo.Map(records, func(r Record, _ int) Track {
		return FromRecord(r)
	})
	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Title < tracks[j].Title
	})

	l.log.Debug("catalog loaded", "tracks", len(tracks))
	return tracks, nil
}

// FromRecord builds a track, substituting fallbacks for absent fields.
func FromRecord(r Record) Track {
	return Track{
		ID:       r.ID,
		Title:    orDefault(r.Title, UnknownTitle),
		Artist:   orDefault(r.Artist, UnknownArtist),
		Album:    orDefault(r.Album, UnknownAlbum),
		Duration: time.Duration(r.DurationMS) * time.Millisecond,
		Source:   r.Source,
		Artwork:  orDefault(r.Artwork, ""),
	}
}

func orDefault(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
