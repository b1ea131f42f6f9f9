// Package minify wraps tdewolff/minify for CSS and SVG.
package minify

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Minifier = (*Minifier)(nil)

// Media types understood by Minifier.
const (
	MediaCSS = "text/css"
	MediaSVG = "image/svg+xml"
)

// Minifier implements ports.Minifier.
type Minifier struct {
	m *minify.M
}

// New creates a Minifier with the CSS and SVG minifiers registered.
func New() *Minifier {
	m := minify.New()
	m.AddFunc(MediaCSS, css.Minify)
	m.AddFunc(MediaSVG, svg.Minify)
	return &Minifier{m: m}
}

// Minify implements ports.Minifier.
func (m *Minifier) Minify(mediaType string, b []byte) ([]byte, error) {
	out, err := m.m.Bytes(mediaType, b)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "minify failed"), "media_type", mediaType)
	}
	return out, nil
}
