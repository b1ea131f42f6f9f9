// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/kiln/internal/adapters/config"
	_ "go.trai.ch/kiln/internal/adapters/css"
	_ "go.trai.ch/kiln/internal/adapters/devserver"
	_ "go.trai.ch/kiln/internal/adapters/esbuild"
	_ "go.trai.ch/kiln/internal/adapters/fs"
	_ "go.trai.ch/kiln/internal/adapters/html"
	_ "go.trai.ch/kiln/internal/adapters/image"
	_ "go.trai.ch/kiln/internal/adapters/logger"
	_ "go.trai.ch/kiln/internal/adapters/minify"
	_ "go.trai.ch/kiln/internal/adapters/sass"
	_ "go.trai.ch/kiln/internal/adapters/sprite"
	_ "go.trai.ch/kiln/internal/adapters/watcher"
	// Register the application node.
	_ "go.trai.ch/kiln/internal/app"
)
