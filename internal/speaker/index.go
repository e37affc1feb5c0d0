package speaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var _ Catalog = (*Index)(nil)

// Index is an in-memory snapshot of a Dir. The snapshot is rebuilt whenever
// the watcher sees a change under the root, and on a fallback timer. Resolve
// always checks the filesystem so a removed sample is never handed out.
type Index struct {
	dir     *Dir
	refresh time.Duration
	logger  *slog.Logger

	mu   sync.RWMutex
	snap snapshot
}

type snapshot struct {
	names    []string            // every language directory, sorted
	speakers map[string][]string // language -> display names (possibly empty)
	err      error               // non-nil when the last scan failed
}

// NewIndex scans dir once and returns an index serving that snapshot.
// Call Run to keep it current.
func NewIndex(dir *Dir, refresh time.Duration, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}

	idx := &Index{
		dir:     dir,
		refresh: refresh,
		logger:  logger.With("component", "speaker-index"),
	}
	idx.Refresh()

	return idx
}

// Refresh rebuilds the snapshot from disk.
func (x *Index) Refresh() {
	snap := snapshot{speakers: map[string][]string{}}

	names, err := x.dir.languageNames()
	if err != nil {
		snap.err = err
	} else {
		snap.names = names
		for _, lang := range names {
			speakers, err := x.dir.speakers(lang)
			if err != nil {
				// The directory may vanish between listing and reading.
				x.logger.Warn("skipping language", "language", lang, "error", err)
				continue
			}
			snap.speakers[lang] = speakers
		}
	}

	x.mu.Lock()
	x.snap = snap
	x.mu.Unlock()

	x.logger.Debug("speaker index refreshed", "languages", len(snap.names))
}

// Run watches the catalog root and refreshes the snapshot on change until
// ctx is cancelled.
func (x *Index) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	x.watchAll(watcher)

	var tick <-chan time.Time
	if x.refresh > 0 {
		ticker := time.NewTicker(x.refresh)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) {
				continue
			}
			x.logger.Debug("catalog change", "file", event.Name, "event", event.Op)
			x.Refresh()
			x.watchAll(watcher)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			x.logger.Warn("catalog watcher error", "error", err)

		case <-tick:
			x.Refresh()
			x.watchAll(watcher)
		}
	}
}

// watchAll registers the root and every language directory. Adding an
// already watched path is a no-op for fsnotify.
func (x *Index) watchAll(watcher *fsnotify.Watcher) {
	if err := watcher.Add(x.dir.root); err != nil {
		x.logger.Debug("cannot watch speaker root", "dir", x.dir.root, "error", err)
		return
	}

	x.mu.RLock()
	names := x.snap.names
	x.mu.RUnlock()

	for _, lang := range names {
		dir := filepath.Join(x.dir.root, lang)
		if err := watcher.Add(dir); err != nil {
			x.logger.Debug("cannot watch language", "dir", dir, "error", err)
		}
	}
}

// Languages implements Catalog.
func (x *Index) Languages(_ context.Context) (map[string][]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.snap.err != nil {
		return nil, x.snap.err
	}

	languages := make(map[string][]string, len(x.snap.speakers))
	for lang, speakers := range x.snap.speakers {
		if len(speakers) > 0 {
			languages[lang] = slices.Clone(speakers)
		}
	}

	return languages, nil
}

// LanguageNames implements Catalog.
func (x *Index) LanguageNames(_ context.Context) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.snap.err != nil {
		return nil, x.snap.err
	}

	return slices.Clone(x.snap.names), nil
}

// Speakers implements Catalog.
func (x *Index) Speakers(_ context.Context, lang string) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.snap.err != nil && !errors.Is(x.snap.err, ErrRootNotFound) {
		return nil, x.snap.err
	}

	speakers, ok := x.snap.speakers[lang]
	if !ok {
		return nil, &LanguageNotFoundError{
			Language:  lang,
			Available: slices.Clone(x.snap.names),
		}
	}

	return slices.Clone(speakers), nil
}

// Resolve implements Catalog.
func (x *Index) Resolve(ctx context.Context, lang, key string) (string, error) {
	return x.dir.Resolve(ctx, lang, key)
}
