package esbuild

import (
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Prefixer = (*Prefixer)(nil)

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"safari":  api.EngineSafari,
	"ios":     api.EngineIOS,
	"opera":   api.EngineOpera,
	"ie":      api.EngineIE,
}

// Prefixer adds the vendor prefixes and syntax lowering the target browsers need.
type Prefixer struct {
	engines []api.Engine
}

// NewPrefixer creates a Prefixer for browser targets such as "safari16".
func NewPrefixer(browsers []string) (*Prefixer, error) {
	engines, err := Engines(browsers)
	if err != nil {
		return nil, err
	}
	return &Prefixer{engines: engines}, nil
}

// Engines converts browser targets to esbuild engines.
func Engines(browsers []string) ([]api.Engine, error) {
	engines := make([]api.Engine, 0, len(browsers))
	for _, b := range browsers {
		name, version, err := domain.ParseBrowser(b)
		if err != nil {
			return nil, err
		}
		engine, ok := engineNames[name]
		if !ok {
			return nil, zerr.With(domain.ErrUnknownBrowser, "browser", b)
		}
		engines = append(engines, api.Engine{Name: engine, Version: version})
	}
	return engines, nil
}

// Prefix implements ports.Prefixer.
func (p *Prefixer) Prefix(name string, css []byte) ([]byte, error) {
	return transform(css, api.TransformOptions{
		Loader:     api.LoaderCSS,
		Engines:    p.engines,
		Sourcefile: name,
	})
}
