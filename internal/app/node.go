package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/adapters/css"
	"go.trai.ch/kiln/internal/adapters/devserver"
	"go.trai.ch/kiln/internal/adapters/esbuild"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/html"
	"go.trai.ch/kiln/internal/adapters/image"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/minify"
	"go.trai.ch/kiln/internal/adapters/sass"
	"go.trai.ch/kiln/internal/adapters/sprite"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

// NodeID is the unique identifier for the application Graft node.
const NodeID graft.ID = "app.components"

// Components is the root of the dependency graph handed to the CLI.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.ResolverNodeID,
			fs.WriterNodeID,
			sass.NodeID,
			css.NodeID,
			esbuild.ScriptCompilerNodeID,
			minify.NodeID,
			image.NodeID,
			sprite.NodeID,
			html.NodeID,
			watcher.FactoryNodeID,
			watcher.ChangeFilterNodeID,
			devserver.FactoryNodeID,
		},
		Run: runComponents,
	})
}

func runComponents(ctx context.Context) (*Components, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}
	writer, err := graft.Dep[*fs.Writer](ctx)
	if err != nil {
		return nil, err
	}
	styles, err := graft.Dep[ports.StyleCompiler](ctx)
	if err != nil {
		return nil, err
	}
	media, err := graft.Dep[ports.MediaQueryGrouper](ctx)
	if err != nil {
		return nil, err
	}
	scripts, err := graft.Dep[ports.ScriptCompiler](ctx)
	if err != nil {
		return nil, err
	}
	minifier, err := graft.Dep[ports.Minifier](ctx)
	if err != nil {
		return nil, err
	}
	images, err := graft.Dep[ports.ImageOptimizer](ctx)
	if err != nil {
		return nil, err
	}
	sprites, err := graft.Dep[ports.SpriteCombiner](ctx)
	if err != nil {
		return nil, err
	}
	composer, err := graft.Dep[ports.HTMLComposer](ctx)
	if err != nil {
		return nil, err
	}
	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}
	changes, err := graft.Dep[ports.ChangeFilter](ctx)
	if err != nil {
		return nil, err
	}
	servers, err := graft.Dep[ports.DevServerFactory](ctx)
	if err != nil {
		return nil, err
	}

	caps := pipeline.Capabilities{
		Styles:   styles,
		Media:    media,
		Scripts:  scripts,
		Minifier: minifier,
		Images:   images,
		Sprites:  sprites,
		HTML:     composer,
	}
	return &Components{
		App:    New(loader, log, resolver, writer, caps, watchers, changes, servers),
		Logger: log,
	}, nil
}
