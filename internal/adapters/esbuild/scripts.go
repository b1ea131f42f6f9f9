package esbuild

import (
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.ScriptCompiler = (*ScriptCompiler)(nil)

// ScriptCompiler lowers modern JavaScript to ES2015 and minifies it.
type ScriptCompiler struct{}

// NewScriptCompiler creates a ScriptCompiler.
func NewScriptCompiler() *ScriptCompiler {
	return &ScriptCompiler{}
}

// Transpile implements ports.ScriptCompiler.
func (c *ScriptCompiler) Transpile(name string, src []byte) ([]byte, error) {
	return transform(src, api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     api.ES2015,
		Sourcefile: name,
	})
}

// Minify implements ports.ScriptCompiler.
func (c *ScriptCompiler) Minify(name string, src []byte) ([]byte, error) {
	return transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Sourcefile:        name,
	})
}
