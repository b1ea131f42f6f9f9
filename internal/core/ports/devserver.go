package ports

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
)

// DevServer serves the build output and pushes reload notifications to browsers.
//
//go:generate mockgen -source=devserver.go -destination=mocks/mock_devserver.go -package=mocks
type DevServer interface {
	// Listen binds the listener. Failure is fatal and tagged domain.ErrPortBind.
	Listen() (addr string, err error)
	// Serve blocks serving requests until ctx is cancelled.
	Serve(ctx context.Context) error
	// Reload notifies every connected client that the given output paths changed.
	Reload(paths []string)
	// WatchOutput reloads clients once per debounced batch of output changes
	// seen by w. It blocks until ctx is cancelled.
	WatchOutput(ctx context.Context, w Watcher, window time.Duration) error
}

// DevServerFactory builds the dev server for a configuration.
type DevServerFactory interface {
	NewServer(cfg domain.Config) DevServer
}
