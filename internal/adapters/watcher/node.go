package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// FactoryNodeID is the unique identifier for the watcher factory Graft node.
	FactoryNodeID graft.ID = "adapter.watcher_factory"
	// ChangeFilterNodeID is the unique identifier for the content cache Graft node.
	ChangeFilterNodeID graft.ID = "adapter.change_filter"
)

var _ ports.WatcherFactory = (*Factory)(nil)

// Factory creates Watchers sharing one logger.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a new Factory.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewWatcher returns a stopped Watcher.
func (f *Factory) NewWatcher() (ports.Watcher, error) {
	return NewWatcher(f.logger), nil
}

func init() {
	graft.Register(graft.Node[ports.WatcherFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.WatcherFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})

	graft.Register(graft.Node[ports.ChangeFilter]{
		ID:        ChangeFilterNodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.ChangeFilter, error) {
			return NewContentCache(), nil
		},
	})
}
