package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// ResolverNodeID is the graft node for the input resolver.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	// WriterNodeID is the graft node for the concrete writer shared by the cleaner.
	WriterNodeID graft.ID = "adapter.fs.writer"
	// OutputWriterNodeID is the graft node exposing the writer as a port.
	OutputWriterNodeID graft.ID = "adapter.fs.output_writer"
)

func init() {
	graft.Register(graft.Node[ports.InputResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.InputResolver, error) {
			return NewResolver(), nil
		},
	})

	graft.Register(graft.Node[*Writer]{
		ID:        WriterNodeID,
		Cacheable: true,
		Run: func(context.Context) (*Writer, error) {
			return NewWriter(), nil
		},
	})

	graft.Register(graft.Node[ports.OutputWriter]{
		ID:        OutputWriterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WriterNodeID},
		Run: func(ctx context.Context) (ports.OutputWriter, error) {
			w, err := graft.Dep[*Writer](ctx)
			if err != nil {
				return nil, err
			}
			return w, nil
		},
	})
}
