package css

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the media query grouper Graft node.
const NodeID graft.ID = "adapter.css"

func init() {
	graft.Register(graft.Node[ports.MediaQueryGrouper]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.MediaQueryGrouper, error) {
			return NewGrouper(), nil
		},
	})
}
