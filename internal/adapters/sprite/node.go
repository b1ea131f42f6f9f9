package sprite

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the sprite combiner Graft node.
const NodeID graft.ID = "adapter.sprite"

func init() {
	graft.Register(graft.Node[ports.SpriteCombiner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.SpriteCombiner, error) {
			return NewCombiner(), nil
		},
	})
}
