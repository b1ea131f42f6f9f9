package ports

import (
	"context"
	"iter"

	"go.trai.ch/kiln/internal/core/domain"
)

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// String returns the operation name.
func (op WatchOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// WatchEvent represents a file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file or directory that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher is a restartable source of file system events.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given root directory recursively.
	// It may be called again once a previous run has ended.
	Start(ctx context.Context, root string) error
	// Stop stops the watcher and ends the current event sequence.
	Stop() error
	// Events returns a lazy sequence of events. It ends when the watch context
	// is cancelled or Stop is called.
	Events() iter.Seq[WatchEvent]
}

// WatcherFactory creates independent watchers, one per watched tree.
type WatcherFactory interface {
	NewWatcher() (Watcher, error)
}

// ChangeFilter reports whether a path's content differs from the last time it was seen.
type ChangeFilter interface {
	Changed(path string) bool
	// Prime records assets as seen, keyed by their Source path.
	Prime(assets []domain.Asset)
}
