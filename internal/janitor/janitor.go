// Package janitor removes generated audio once it outlives its retention
// window. Cleanup is best-effort: failures are logged and never surface to
// the request that triggered the sweep.
package janitor

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// Placeholder keeps the otherwise empty scratch directory in version control.
const Placeholder = ".gitkeep"

// Result summarizes one sweep.
type Result struct {
	Removed int
	Failed  int
	Bytes   int64
}

// Janitor sweeps a single directory.
type Janitor struct {
	dir    string
	maxAge time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// New creates a janitor for dir that deletes entries older than maxAge.
func New(dir string, maxAge time.Duration, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		dir:    dir,
		maxAge: maxAge,
		logger: logger.With("component", "janitor"),
		now:    time.Now,
	}
}

// Sweep deletes expired entries now.
func (j *Janitor) Sweep() Result {
	return Sweep(j.dir, j.maxAge, j.now(), j.logger)
}

// Run sweeps every interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("background sweep started", "dir", j.dir, "interval", interval, "max_age", j.maxAge)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep deletes every entry in dir last modified before now-maxAge, except
// the placeholder. A failure on one entry does not stop the others.
func Sweep(dir string, maxAge time.Duration, now time.Time, logger *slog.Logger) Result {
	var res Result

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error("listing scratch directory", "dir", dir, "error", err)
		return res
	}

	cutoff := now.Add(-maxAge)

	for _, entry := range entries {
		if entry.Name() == Placeholder {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			// Removed concurrently, nothing left to do.
			if !os.IsNotExist(err) {
				logger.Error("reading file info", "path", path, "error", err)
				res.Failed++
			}
			continue
		}

		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			logger.Error("removing old file", "path", path, "error", err)
			res.Failed++
			continue
		}

		res.Removed++
		res.Bytes += info.Size()
	}

	if res.Removed > 0 || res.Failed > 0 {
		logger.Debug("sweep complete",
			"dir", dir,
			"removed", res.Removed,
			"failed", res.Failed,
			"freed", humanize.Bytes(uint64(res.Bytes)))
	}

	return res
}
