package html

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the HTML composer Graft node.
const NodeID graft.ID = "adapter.html"

func init() {
	graft.Register(graft.Node[ports.HTMLComposer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.HTMLComposer, error) {
			return NewComposer(), nil
		},
	})
}
