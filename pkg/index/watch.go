package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of events on the
// same files to settle
const DefaultDebounce = 200 * time.Millisecond

// Watch keeps the index of root current until ctx is done. Changed and
// created files are indexed again, removed or renamed files are dropped
// and new directories are watched as they appear.
func (ix *Indexer) Watch(ctx context.Context, root string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := ix.watchTree(w, root, root); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ix.log().Warn("watch error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := ix.watchTree(w, root, ev.Name); err != nil {
						ix.log().Warn("failed to watch directory", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil || !ix.Matches(rel) {
				continue
			}
			pending[ev.Name] |= ev.Op
			timer.Reset(debounce)
		case <-timer.C:
			if err := ix.flush(ctx, pending); err != nil {
				return err
			}
			clear(pending)
		}
	}
}

func (ix *Indexer) flush(ctx context.Context, pending map[string]fsnotify.Op) error {
	for path, op := range pending {
		_, statErr := os.Stat(path)
		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) || errors.Is(statErr, fs.ErrNotExist) {
			if err := ix.Store.Remove(ctx, path); err != nil {
				return err
			}
			ix.log().Info("removed from index", "path", path)
			continue
		}
		changed, err := ix.IndexFile(ctx, path)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, errStore):
			return err
		case err != nil:
			ix.log().Warn("failed to index file", "path", path, "error", err)
		case changed:
			ix.log().Info("reindexed", "path", path)
		}
	}
	return nil
}

func (ix *Indexer) watchTree(w *fsnotify.Watcher, root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(root, path); rel != "." && ix.excludedDir(rel) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
