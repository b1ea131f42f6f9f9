package domain

// WatchBinding re-runs Target when a file matching one of Patterns changes.
// Patterns are slash separated globs relative to the project root.
type WatchBinding struct {
	Name     string
	Patterns []string
	Target   Node
}

// WatchState is the state of the watch loop.
type WatchState uint8

const (
	// WatchIdle means no watcher is running.
	WatchIdle WatchState = iota
	// WatchWatching means events are being dispatched to bindings.
	WatchWatching
)

// String returns the state name.
func (s WatchState) String() string {
	if s == WatchWatching {
		return "watching"
	}
	return "idle"
}
