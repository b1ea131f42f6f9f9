package esbuild

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// ScriptCompilerNodeID is the unique identifier for the script compiler Graft node.
// The Prefixer depends on the configured browsers and is built per build.
const ScriptCompilerNodeID graft.ID = "adapter.esbuild.scripts"

func init() {
	graft.Register(graft.Node[ports.ScriptCompiler]{
		ID:        ScriptCompilerNodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.ScriptCompiler, error) {
			return NewScriptCompiler(), nil
		},
	})
}
