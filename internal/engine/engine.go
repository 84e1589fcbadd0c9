// Package engine holds the current validated story and swaps it atomically
// when the story is reloaded.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/cyoa/internal/metrics"
	"github.com/gyaneshwarpardhi/cyoa/internal/pagefile"
	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

const defaultDebounce = 250 * time.Millisecond

// Snapshot is one loaded, validated story. It is never modified after Load
// publishes it.
type Snapshot struct {
	Revision string
	Source   string
	LoadedAt time.Time
	Graph    *story.Graph
	Depths   story.DepthMap
	Winnable bool

	routesOnce sync.Once
	routes     []story.Route
	routesErr  error
}

// Routes enumerates the winning routes on first use and caches the result.
func (s *Snapshot) Routes() ([]story.Route, error) {
	s.routesOnce.Do(func() {
		start := time.Now()
		s.routes, s.routesErr = story.EnumerateWinRoutes(s.Graph)
		metrics.RouteEnumerationDuration.Observe(float64(time.Since(start).Milliseconds()))
		metrics.WinRoutes.Set(float64(len(s.routes)))
	})
	return s.routes, s.routesErr
}

// Options tunes an Engine. The zero value is usable.
type Options struct {
	Logger *slog.Logger
	// Debounce coalesces bursts of file events into one reload.
	Debounce time.Duration
}

// Engine serves the latest successfully loaded Snapshot.
type Engine struct {
	src     pagefile.Source
	log     *slog.Logger
	wait    time.Duration
	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex
}

func New(src pagefile.Source, opts Options) *Engine {
	e := &Engine{src: src, log: opts.Logger, wait: opts.Debounce}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.wait <= 0 {
		e.wait = defaultDebounce
	}
	return e
}

// Snapshot returns the current story, or nil before the first successful load.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

func (e *Engine) Source() pagefile.Source { return e.src }

// Load reads and validates the story and publishes it. On failure the
// previous snapshot stays current.
func (e *Engine) Load(ctx context.Context) (*Snapshot, error) {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	start := time.Now()
	snap, err := e.build(ctx)
	if err != nil {
		metrics.StoryLoads.WithLabelValues("error").Inc()
		metrics.ValidationFailures.WithLabelValues(story.ErrorKind(err)).Inc()
		e.log.Warn("story load failed", "source", e.src.Path(), "err", err)
		return nil, err
	}
	e.current.Store(snap)

	metrics.StoryLoads.WithLabelValues("success").Inc()
	metrics.StoryPages.Set(float64(snap.Graph.PageCount()))
	e.log.Info("story loaded",
		"source", snap.Source,
		"revision", snap.Revision,
		"pages", snap.Graph.PageCount(),
		"winnable", snap.Winnable,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

func (e *Engine) build(ctx context.Context) (*Snapshot, error) {
	pages, err := e.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, err := story.Build(pages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.src.Path(), err)
	}
	depths := story.ComputeDepths(g)
	return &Snapshot{
		Revision: uuid.NewString(),
		Source:   e.src.Path(),
		LoadedAt: time.Now().UTC(),
		Graph:    g,
		Depths:   depths,
		Winnable: story.HasWinningOutcome(g),
	}, nil
}

// Watch reloads the story whenever files under its path change. It returns
// once the watcher is running; the watcher stops when ctx is done.
func (e *Engine) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("story watcher: %w", err)
	}
	dir, match, err := watchTarget(e.src.Path())
	if err != nil {
		w.Close()
		return err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("story watcher add %s: %w", dir, err)
	}

	go func() {
		defer w.Close()
		timer := time.NewTimer(e.wait)
		timer.Stop()
		defer timer.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !match(ev.Name) || !relevant(ev) {
					continue
				}
				e.log.Debug("story changed", "file", ev.Name, "op", ev.Op.String())
				timer.Reset(e.wait)
			case <-timer.C:
				// Load logs its own failures.
				_, _ = e.Load(ctx)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				e.log.Warn("story watcher error", "err", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// watchTarget returns the directory to watch and a filter for event names.
// A bundle file is watched through its parent so that editors replacing the
// file do not drop the watch.
func watchTarget(p string) (string, func(string) bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return "", nil, fmt.Errorf("story watcher: %w", err)
	}
	if info.IsDir() {
		return p, func(name string) bool {
			_, ok := pagefile.OrdinalFromName(name)
			return ok
		}, nil
	}
	clean := filepath.Clean(p)
	return filepath.Dir(clean), func(name string) bool {
		return filepath.Clean(name) == clean
	}, nil
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
