package mediaindex

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch rescans sources whenever the filesystem under them changes, once
// events have been quiet for debounce. onScan receives each rescan's result
// and may be nil. Watch blocks until ctx is done.
func (i *Index) Watch(ctx context.Context, sources []string, debounce time.Duration, onScan func(ScanStats, error)) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, src := range sources {
		addTree(w, src)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					addTree(w, ev.Name)
				}
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			i.log.Warn("watch error", "err", err)
		case <-timer.C:
			stats, err := i.Scan(ctx, sources, nil)
			if err != nil {
				i.log.Warn("rescan failed", "err", err)
			}
			if onScan != nil {
				onScan(stats, err)
			}
		}
	}
}

// addTree watches root and every directory below it. fsnotify is not
// recursive.
func addTree(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // unreadable entries are not watched
		}
		_ = w.Add(path)
		return nil
	})
}
