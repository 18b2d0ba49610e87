// Package mediaindex keeps a SQLite index of the audio files found under the
// configured library folders. It is the media store the catalog queries.
package mediaindex

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/tunedeck/internal/catalog"
	"github.com/llehouerou/tunedeck/internal/db"
)

const (
	appName         = "tunedeck"
	dbFileName      = "media.db"
	schemaVersion   = 1
	defaultDebounce = 2 * time.Second
)

// Index is the SQLite-backed media index.
type Index struct {
	db    *sql.DB
	log   *slog.Logger
	probe ProbeFunc
	now   func() time.Time
}

// DefaultPath returns $XDG_DATA_HOME/tunedeck/media.db, creating the folder.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens (or creates) the index at path. An empty path uses DefaultPath.
func Open(path string, log *slog.Logger) (*Index, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	idx, err := New(conn, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

// New wraps an already open database and ensures the schema exists.
func New(conn *sql.DB, log *slog.Logger) (*Index, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := initSchema(conn); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Index{db: conn, log: log, probe: Probe, now: time.Now}, nil
}

// Close closes the database.
func (i *Index) Close() error {
	return i.db.Close()
}

func initSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS media (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			mtime INTEGER NOT NULL,
			is_music INTEGER NOT NULL DEFAULT 1,
			title TEXT,
			artist TEXT,
			album TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			artwork TEXT,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_media_source ON media(source);
		CREATE INDEX IF NOT EXISTS idx_media_title ON media(title);
	`)
	if err != nil {
		return err
	}
	_, err = conn.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, schemaVersion)
	return err
}

// Query returns the indexed records, filtered and ordered as asked.
func (i *Index) Query(ctx context.Context, q catalog.Query) ([]catalog.Record, error) {
	query := `SELECT id, title, artist, album, duration_ms, path, artwork FROM media`
	if q.MusicOnly {
		query += ` WHERE is_music = 1`
	}
	switch q.OrderBy {
	case catalog.OrderByTitle:
		query += ` ORDER BY title, id`
	case catalog.OrderByArtist:
		query += ` ORDER BY artist, id`
	case catalog.OrderByAlbum:
		query += ` ORDER BY album, id`
	case catalog.OrderByNone:
	}

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		var (
			r                            catalog.Record
			title, artist, album, artwrk sql.NullString
			duration                     sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &title, &artist, &album, &duration, &r.Source, &artwrk); err != nil {
			return nil, err
		}
		r.Title = db.NullStringToPtr(title)
		r.Artist = db.NullStringToPtr(artist)
		r.Album = db.NullStringToPtr(album)
		r.Artwork = db.NullStringToPtr(artwrk)
		r.DurationMS = db.NullInt64Value(duration)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of indexed files.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}

var _ catalog.Index = (*Index)(nil)
