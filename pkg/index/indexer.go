package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"cxxscope/pkg/logging"
	"cxxscope/pkg/parser"
)

// Stats summarizes an indexing run
type Stats struct {
	Indexed int
	Skipped int
	Removed int
	Failed  int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d indexed, %d unchanged, %d removed, %d failed",
		s.Indexed, s.Skipped, s.Removed, s.Failed)
}

// Indexer parses source files in parallel and records their declarations
// in a Store
type Indexer struct {
	Store   *Store
	Parser  parser.Options
	Workers int
	Include []string
	Exclude []string
	Log     *slog.Logger
}

func (ix *Indexer) log() *slog.Logger { return logging.OrDiscard(ix.Log) }

// Matches reports whether the slash separated path rel is selected by the
// include and exclude patterns
func (ix *Indexer) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range ix.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	if len(ix.Include) == 0 {
		return true
	}
	for _, pattern := range ix.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (ix *Indexer) excludedDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range ix.Exclude {
		// a directory is excluded when anything below it would be
		if ok, _ := doublestar.Match(pattern, rel+"/x"); ok {
			return true
		}
	}
	return false
}

// Run indexes the matching files below root. Unchanged files are skipped
// and files that disappeared since the last run are removed. A file that
// fails to parse is logged and counted; only cancellation and store errors
// end the run.
func (ix *Indexer) Run(ctx context.Context, root string) (Stats, error) {
	var stats Stats
	files, err := ix.scan(root)
	if err != nil {
		return stats, err
	}

	var indexed, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	workers := ix.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			changed, err := ix.IndexFile(gctx, path)
			switch {
			case err == nil && changed:
				indexed.Add(1)
			case err == nil:
				skipped.Add(1)
			case gctx.Err() != nil:
				return gctx.Err()
			case errors.Is(err, errStore):
				return err
			default:
				ix.log().Warn("failed to index file", "path", path, "error", err)
				failed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.Indexed = int(indexed.Load())
	stats.Skipped = int(skipped.Load())
	stats.Failed = int(failed.Load())

	removed, err := ix.prune(ctx, files)
	stats.Removed = removed
	if err != nil {
		return stats, err
	}
	ix.log().Info("index updated", "root", root, "stats", stats.String())
	return stats, nil
}

func (ix *Indexer) scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && ix.excludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if ix.Matches(rel) {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			files = append(files, abs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, nil
}

func (ix *Indexer) prune(ctx context.Context, present []string) (int, error) {
	seen := make(map[string]bool, len(present))
	for _, p := range present {
		seen[p] = true
	}
	known, err := ix.Store.Files(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errStore, err)
	}
	removed := 0
	for _, p := range known {
		if seen[p] {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			// outside this run's root or patterns
			continue
		}
		if err := ix.Store.Remove(ctx, p); err != nil {
			return removed, fmt.Errorf("%w: %w", errStore, err)
		}
		removed++
	}
	return removed, nil
}

var errStore = errors.New("index store")

// IndexFile parses path and replaces its entries in the store. It reports
// false when the stored hash shows the file has not changed.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	content := string(data)
	hash := Hash(content)
	old, err := ix.Store.FileHash(ctx, path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", errStore, err)
	}
	if old == hash {
		return false, nil
	}

	opts := ix.Parser
	opts.Mode = parser.ModeFull
	opts.Logger = ix.log()
	tu, err := parser.New(opts).Parse(ctx, path, content)
	if err != nil {
		return false, err
	}
	entries := Collect(tu)
	if err := ix.Store.Replace(ctx, path, hash, entries); err != nil {
		return false, fmt.Errorf("%w: %w", errStore, err)
	}
	ix.log().Debug("indexed file", "path", path, "declarations", len(entries), "problems", len(tu.Problems()))
	return true, nil
}
