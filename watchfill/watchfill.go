// Package watchfill re-runs a template fill whenever the template file
// changes on disk. It watches the template's directory rather than the
// file itself (editors save via rename, which drops a watch bound to the
// old inode), filters out editor lock files, and debounces event bursts
// so one save triggers one fill.
//
// Typical usage:
//
//	w, err := watchfill.New(tpl, watchfill.Options{Debounce: 400 * time.Millisecond})
//	go w.OnChange(ctx, func() error { return refill() })
package watchfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Options tunes the watcher behaviour.
type Options struct {
	// Debounce is the quiet period after a change before the action
	// fires. Further changes inside the window reset the timer.
	// Default: 400ms.
	Debounce time.Duration
	// Ignore holds doublestar patterns for paths that never trigger a
	// run. Default: "**/~$*" (Word lock files).
	Ignore []string
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Debounce <= 0 {
		o.Debounce = 400 * time.Millisecond
	}
	if len(o.Ignore) == 0 {
		o.Ignore = []string{"**/~$*"}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Watcher observes a single template file and runs an action when it
// changes. It is safe for concurrent use.
type Watcher struct {
	template string
	opts     Options
	fs       *fsnotify.Watcher

	// Counters for observability (exported via Stats).
	events  atomic.Int64
	ignored atomic.Int64
	errors  atomic.Int64
	runs    atomic.Int64
	runNs   atomic.Int64
}

// Stats are point-in-time counters.
type Stats struct {
	Events     int64         `json:"events"`
	Ignored    int64         `json:"ignored"`
	Errors     int64         `json:"errors"`
	Runs       int64         `json:"runs"`
	AvgRunTime time.Duration `json:"avg_run_time"`
}

// New creates a Watcher for the given template path and starts observing
// its directory. Call OnChange to start the loop.
func New(template string, opts Options) (*Watcher, error) {
	if strings.TrimSpace(template) == "" {
		return nil, errors.New("watchfill: template path is empty")
	}
	abs, err := filepath.Abs(template)
	if err != nil {
		return nil, fmt.Errorf("resolve template path: %w", err)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	opts.defaults()
	return &Watcher{template: abs, opts: opts, fs: fs}, nil
}

// Template returns the absolute path being watched.
func (w *Watcher) Template() string { return w.template }

// Close releases the underlying file system watcher. A blocked OnChange
// returns after Close.
func (w *Watcher) Close() error { return w.fs.Close() }

// Stats returns the current counters.
func (w *Watcher) Stats() Stats {
	s := Stats{
		Events:  w.events.Load(),
		Ignored: w.ignored.Load(),
		Errors:  w.errors.Load(),
		Runs:    w.runs.Load(),
	}
	if s.Runs > 0 {
		s.AvgRunTime = time.Duration(w.runNs.Load() / s.Runs)
	}
	return s
}

// OnChange blocks until ctx is cancelled or the watcher is closed.
// When the template is created or written and the debounce window passes
// without further changes, action is called.
//
// If action returns an error the run is counted as an error and the loop
// keeps going. The next save triggers a fresh attempt.
func (w *Watcher) OnChange(ctx context.Context, action func() error) {
	log := w.opts.Logger

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	log.Info("watchfill: started", "template", w.template, "debounce", w.opts.Debounce)

	for {
		select {
		case <-ctx.Done():
			log.Info("watchfill: stopped")
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if w.skip(ev.Name) {
				w.ignored.Add(1)
				log.Debug("watchfill: ignored", "path", ev.Name, "op", ev.Op.String())
				continue
			}
			if filepath.Clean(ev.Name) != w.template {
				continue
			}
			w.events.Add(1)

			// (Re)start the debounce timer. Saves from Word arrive as a
			// burst of create/write events for the same path.
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.opts.Debounce)
			debounceCh = debounceTimer.C
			log.Debug("watchfill: change detected, debouncing", "op", ev.Op.String())

		case <-debounceCh:
			debounceCh = nil
			w.fire(log, action)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.errors.Add(1)
			log.Warn("watchfill: watch error", "error", err)
		}
	}
}

func (w *Watcher) fire(log *slog.Logger, action func() error) {
	log.Info("watchfill: template changed, refilling")
	start := time.Now()
	if err := action(); err != nil {
		w.errors.Add(1)
		log.Error("watchfill: fill failed", "error", err)
		return
	}
	elapsed := time.Since(start)
	w.runs.Add(1)
	w.runNs.Add(int64(elapsed))
	log.Info("watchfill: fill complete", "duration", elapsed)
}

// skip reports whether path matches a configured ignore pattern. Lock
// files (~$Template.docx) churn the whole time a document is open and
// must never trigger a run.
func (w *Watcher) skip(path string) bool {
	for _, pattern := range w.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(path)); ok {
			return true
		}
	}
	return false
}
