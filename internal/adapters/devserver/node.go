package devserver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the dev server factory Graft node.
const FactoryNodeID graft.ID = "adapter.devserver_factory"

var _ ports.DevServerFactory = (*Factory)(nil)

// Factory builds a Server for a configuration. The address is only known
// once the config is loaded and flags are applied.
type Factory struct {
	logger ports.Logger
}

// NewFactory creates a Factory.
func NewFactory(logger ports.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewServer returns a Server for cfg's output root and server address.
func (f *Factory) NewServer(cfg domain.Config) ports.DevServer {
	return New(cfg.OutputPath(), cfg.Server.Addr(), f.logger)
}

func init() {
	graft.Register(graft.Node[ports.DevServerFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.DevServerFactory, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(log), nil
		},
	})
}
