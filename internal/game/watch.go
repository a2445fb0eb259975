package game

import (
	"context"
	"os"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
// Files that appear after the first scan count as changed; files that
// disappear count as changed too, so deleting an override reverts to defaults.
type FileWatcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func([]string) // called once per scan with every path that changed
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func([]string)) *FileWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done. It primes on entry so only later edits fire.
func (w *FileWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.Scan(true)
	for {
		select {
		case <-ticker.C:
			w.Scan(false)
		case <-ctx.Done():
			return nil
		}
	}
}

// Scan checks mtimes and reports which files changed since the last scan.
// A missing file has a zero mtime.
func (w *FileWatcher) Scan(prime bool) []string {
	var changed []string
	for _, p := range w.Paths {
		var mt time.Time
		if fi, err := os.Stat(p); err == nil {
			mt = fi.ModTime()
		}
		last, seen := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || !seen {
			continue
		}
		if !mt.Equal(last) {
			changed = append(changed, p)
		}
	}
	if len(changed) > 0 && w.onChange != nil {
		w.onChange(changed)
	}
	return changed
}
