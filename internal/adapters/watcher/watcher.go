// Package watcher provides the fsnotify event source, the debouncer and the
// content change filter used by watch mode.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirectories are never watched.
var skippedDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify. Each Start opens a fresh
// fsnotify watcher, so a Watcher can be started again after Stop.
type Watcher struct {
	logger ports.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
}

// NewWatcher creates a stopped watcher. File system errors reported while
// watching are logged as warnings when logger is set.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Start begins watching root recursively. Directories created later are added as they appear.
func (w *Watcher) Start(ctx context.Context, root string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return startError(root, err)
	}

	for dir := range watchRecursively(root) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return startError(dir, err)
		}
	}

	events := make(chan ports.WatchEvent, eventChannelBuffer)

	w.mu.Lock()
	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
	w.fsWatcher = fsw
	w.events = events
	w.mu.Unlock()

	go w.processEvents(ctx, fsw, events)
	return nil
}

// Stop closes the current fsnotify watcher, which ends the event sequence.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher == nil {
		return nil
	}
	err := w.fsWatcher.Close()
	w.fsWatcher = nil
	return err
}

// Events returns the events of the current run. Without a run it is empty.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	w.mu.Lock()
	events := w.events
	w.mu.Unlock()

	return func(yield func(ports.WatchEvent) bool) {
		if events == nil {
			return
		}
		for event := range events {
			if !yield(event) {
				return
			}
		}
	}
}

func startError(path string, err error) error {
	return domain.Tag(domain.ErrIO, zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", path))
}

// watchRecursively yields root and every directory below it that is not skipped.
func watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skippedDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher, events chan<- ports.WatchEvent) {
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			_ = fsw.Close()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skippedDirectories[info.Name()] {
					for dir := range watchRecursively(event.Name) {
						_ = fsw.Add(dir)
					}
				}
			}

			select {
			case events <- watchEvent:
			case <-ctx.Done():
				_ = fsw.Close()
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("watcher: " + err.Error())
			}
		}
	}
}

// convertEvent maps an fsnotify event to a WatchEvent. Chmod-only events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
