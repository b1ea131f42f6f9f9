package ports

import "context"

//go:generate mockgen -source=capabilities.go -destination=mocks/mock_capabilities.go -package=mocks

// StyleCompiler compiles Sass sources to CSS.
type StyleCompiler interface {
	// ExpandGlobImports rewrites glob @import rules in src into one import per matched file.
	ExpandGlobImports(path string, src []byte) ([]byte, error)
	// Compile compiles the stylesheet at path with contents src.
	Compile(ctx context.Context, path string, src []byte) ([]byte, error)
	// Close releases the compiler process.
	Close() error
}

// MediaQueryGrouper moves and merges @media blocks.
type MediaQueryGrouper interface {
	GroupMediaQueries(css []byte) ([]byte, error)
}

// Prefixer adds vendor prefixes for the configured browser targets.
type Prefixer interface {
	Prefix(name string, css []byte) ([]byte, error)
}

// ScriptCompiler transpiles and minifies scripts.
type ScriptCompiler interface {
	Transpile(name string, src []byte) ([]byte, error)
	Minify(name string, src []byte) ([]byte, error)
}

// Minifier minifies a document of the given media type (text/css, image/svg+xml).
type Minifier interface {
	Minify(mediaType string, b []byte) ([]byte, error)
}

// ImageOptimizer recompresses an image, keeping its format.
type ImageOptimizer interface {
	Optimize(name string, b []byte) ([]byte, error)
}

// SpriteSymbol is one SVG document entering a sprite.
type SpriteSymbol struct {
	ID   string
	Data []byte
}

// SpriteCombiner merges SVG documents into one sprite of <symbol> elements.
type SpriteCombiner interface {
	Combine(symbols []SpriteSymbol) ([]byte, error)
}

// HTMLComposer assembles pages from partials and templates.
type HTMLComposer interface {
	// Import replaces @import "file.html" directives with files from dir, recursively.
	Import(page []byte, dir string) ([]byte, error)
	// ApplyTemplate fills the named build regions of tpl with those found in page.
	ApplyTemplate(tpl, page []byte) ([]byte, error)
	// StripDevComments removes <!--DEV ... --> blocks.
	StripDevComments(page []byte) []byte
}
