package mediaindex

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/llehouerou/tunedeck/internal/db"
	"github.com/llehouerou/tunedeck/internal/tags"
)

const numWorkers = 8

// Scan phases reported on the progress channel.
const (
	PhaseDiscover = "discovering"
	PhaseProbe    = "probing"
	PhaseClean    = "cleaning"
	PhaseDone     = "done"
)

// ScanProgress reports the progress of a scan.
type ScanProgress struct {
	Phase       string
	Current     int
	Total       int
	CurrentFile string
}

// ScanStats summarizes a completed scan.
type ScanStats struct {
	Found     int
	Added     int
	Updated   int
	Removed   int
	Unchanged int
}

type fileInfo struct {
	path   string
	mtime  int64
	source string
}

type probeResult struct {
	file  fileInfo
	data  Probed
	isNew bool
}

// Scan indexes the music files under sources. Only new files and files whose
// mtime changed are probed; rows for files that disappeared are deleted.
// progress may be nil; when set it is closed before Scan returns.
func (i *Index) Scan(ctx context.Context, sources []string, progress chan<- ScanProgress) (ScanStats, error) {
	if progress != nil {
		defer close(progress)
	}
	report := func(p ScanProgress) {
		if progress == nil {
			return
		}
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	}

	var stats ScanStats

	report(ScanProgress{Phase: PhaseDiscover})
	files := discoverFiles(ctx, sources)
	stats.Found = len(files)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	existing, err := i.existingMtimes(ctx)
	if err != nil {
		return stats, err
	}

	var todo []probeResult
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f.path] = true
		mtime, ok := existing[f.path]
		if ok && mtime == f.mtime {
			stats.Unchanged++
			continue
		}
		todo = append(todo, probeResult{file: f, isNew: !ok})
	}

	report(ScanProgress{Phase: PhaseProbe, Total: len(todo)})
	i.probeAll(ctx, todo, func(done int, path string) {
		report(ScanProgress{Phase: PhaseProbe, Current: done, Total: len(todo), CurrentFile: path})
	})
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	report(ScanProgress{Phase: PhaseClean})
	var vanished []string
	for path := range existing {
		if !seen[path] {
			vanished = append(vanished, path)
		}
	}

	now := i.now().Unix()
	err = db.WithTx(ctx, i.db, func(tx *sql.Tx) error {
		for _, r := range todo {
			if err := upsert(tx, r, now); err != nil {
				return err
			}
			if r.isNew {
				stats.Added++
			} else {
				stats.Updated++
			}
		}
		for _, path := range vanished {
			if _, err := tx.Exec(`DELETE FROM media WHERE path = ?`, path); err != nil {
				return err
			}
			stats.Removed++
		}
		return nil
	})
	if err != nil {
		return ScanStats{Found: stats.Found}, err
	}

	i.log.Info("scan complete",
		"found", stats.Found, "added", stats.Added, "updated", stats.Updated,
		"removed", stats.Removed, "unchanged", stats.Unchanged)
	report(ScanProgress{Phase: PhaseDone, Current: stats.Found, Total: stats.Found})
	return stats, nil
}

// discoverFiles walks sources and returns the music files found. Unreadable
// entries are skipped.
func discoverFiles(ctx context.Context, sources []string) []fileInfo {
	var files []fileInfo
	for _, src := range sources {
		_ = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil || d.IsDir() || !tags.IsMusicFile(path) {
				return nil //nolint:nilerr // keep scanning the rest of the tree
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // vanished between readdir and stat
			}
			files = append(files, fileInfo{path: path, mtime: info.ModTime().Unix(), source: src})
			return nil
		})
	}
	return files
}

func (i *Index) existingMtimes(ctx context.Context) (map[string]int64, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT path, mtime FROM media`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		out[path] = mtime
	}
	return out, rows.Err()
}

// probeAll fills in todo[k].data on a pool of workers.
func (i *Index) probeAll(ctx context.Context, todo []probeResult, onDone func(done int, path string)) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for range min(numWorkers, max(len(todo), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range jobs {
				path := todo[k].file.path
				data, err := i.probe(path)
				if err != nil {
					i.log.Debug("probe incomplete", "path", path, "err", err)
				}
				todo[k].data = data

				mu.Lock()
				done++
				n := done
				mu.Unlock()
				onDone(n, path)
			}
		}()
	}

feed:
	for k := range todo {
		select {
		case jobs <- k:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
}

func upsert(tx *sql.Tx, r probeResult, now int64) error {
	_, err := tx.Exec(`
		INSERT INTO media (path, source, mtime, is_music, title, artist, album, duration_ms, artwork, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			source = excluded.source,
			mtime = excluded.mtime,
			is_music = excluded.is_music,
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration_ms = excluded.duration_ms,
			artwork = excluded.artwork,
			updated_at = excluded.updated_at
	`,
		r.file.path, r.file.source, r.file.mtime, r.data.IsMusic,
		db.NullString(r.data.Title), db.NullString(r.data.Artist), db.NullString(r.data.Album),
		r.data.Duration.Milliseconds(), db.NullString(r.data.Artwork), now, now,
	)
	return err
}
