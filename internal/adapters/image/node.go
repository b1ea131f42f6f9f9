package image

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/minify"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the image optimizer Graft node.
const NodeID graft.ID = "adapter.image"

func init() {
	graft.Register(graft.Node[ports.ImageOptimizer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{minify.NodeID},
		Run: func(ctx context.Context) (ports.ImageOptimizer, error) {
			m, err := graft.Dep[ports.Minifier](ctx)
			if err != nil {
				return nil, err
			}
			return NewOptimizer(m), nil
		},
	})
}
