// Package watch re-renders open documents when their source files change.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const minTick = 10 * time.Millisecond

// Refresher re-renders a document.
type Refresher interface {
	Refresh(ctx context.Context, uri string) error
}

// Watcher watches the directories of open documents. Rapid writes to one
// file collapse into a single refresh once the file has been quiet for the
// debounce interval. It implements editor.Listener.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	target   Refresher
	debounce time.Duration
	docs     map[string]string // path -> uri
	dirs     map[string]int    // dir -> open documents inside it
	pending  map[string]time.Time
	logger   *zap.Logger
}

// New creates a Watcher. Call Run to start processing events.
func New(target Refresher, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if target == nil {
		panic("target is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		target:   target,
		debounce: debounce,
		docs:     make(map[string]string),
		dirs:     make(map[string]int),
		pending:  make(map[string]time.Time),
		logger:   logger,
	}, nil
}

// DocumentOpened starts watching doc's source file.
func (w *Watcher) DocumentOpened(doc editor.Document) {
	path := filepath.Clean(doc.Path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.docs[path]; ok {
		return
	}
	w.docs[path] = doc.URI
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("watch failed", zap.String("dir", dir), zap.Error(err))
		}
	}
	w.dirs[dir]++
}

// DocumentClosed stops watching doc's source file.
func (w *Watcher) DocumentClosed(doc editor.Document) {
	path := filepath.Clean(doc.Path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.docs[path]; !ok {
		return
	}
	delete(w.docs, path)
	delete(w.pending, path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.watcher.Remove(dir)
	}
}

// Watching reports whether path belongs to an open document.
func (w *Watcher) Watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.docs[filepath.Clean(path)]
	return ok
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	interval := w.debounce / 2
	if interval < minTick {
		interval = minTick
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	path := filepath.Clean(event.Name)
	if !w.Watching(path) {
		return
	}

	// A document closed in between is dropped again by flush.
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// flush refreshes every document that has been quiet for the debounce interval.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var due []string

	w.mu.Lock()
	for path, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, path)
		if uri, ok := w.docs[path]; ok {
			due = append(due, uri)
		}
	}
	w.mu.Unlock()

	for _, uri := range due {
		w.logger.Debug("source changed, refreshing", zap.String("uri", uri))
		if err := w.target.Refresh(ctx, uri); err != nil {
			w.logger.Warn("refresh failed", zap.String("uri", uri), zap.Error(err))
		}
	}
}
