// Package sprite merges SVG files into a single sprite of <symbol> elements.
package sprite

import (
	"slices"

	"github.com/beevik/etree"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SpriteCombiner = (*Combiner)(nil)

const svgNamespace = "http://www.w3.org/2000/svg"

var (
	// ErrInvalidSVG is returned when a sprite source is not an <svg> document.
	ErrInvalidSVG = zerr.New("not an svg document")

	// ErrDuplicateSymbol is returned when two sources share a symbol id.
	ErrDuplicateSymbol = zerr.New("duplicate sprite symbol id")
)

// symbolAttrs are copied from each source root onto its symbol.
var symbolAttrs = []string{"viewBox", "preserveAspectRatio"}

// Combiner implements ports.SpriteCombiner. The result is an inline sprite:
// no XML declaration, one <symbol> per source in the order given.
type Combiner struct{}

// NewCombiner creates a Combiner.
func NewCombiner() *Combiner {
	return &Combiner{}
}

// Combine implements ports.SpriteCombiner.
func (c *Combiner) Combine(symbols []ports.SpriteSymbol) ([]byte, error) {
	out := etree.NewDocument()
	sprite := out.CreateElement("svg")
	sprite.CreateAttr("xmlns", svgNamespace)

	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if seen[s.ID] {
			return nil, zerr.With(ErrDuplicateSymbol, "id", s.ID)
		}
		seen[s.ID] = true

		src := etree.NewDocument()
		if err := src.ReadFromBytes(s.Data); err != nil {
			return nil, zerr.With(zerr.Wrap(err, ErrInvalidSVG.Error()), "id", s.ID)
		}
		root := src.Root()
		if root == nil || root.Tag != "svg" {
			return nil, zerr.With(ErrInvalidSVG, "id", s.ID)
		}

		// Namespace declarations such as xmlns:xlink move to the sprite root.
		for _, attr := range root.Attr {
			if attr.Space == "xmlns" && sprite.SelectAttr(attr.FullKey()) == nil {
				sprite.CreateAttr(attr.FullKey(), attr.Value)
			}
		}

		symbol := sprite.CreateElement("symbol")
		symbol.CreateAttr("id", s.ID)
		for _, key := range symbolAttrs {
			if attr := root.SelectAttr(key); attr != nil {
				symbol.CreateAttr(key, attr.Value)
			}
		}
		for _, child := range slices.Clone(root.Child) {
			symbol.AddChild(child)
		}
	}

	b, err := out.WriteToBytes()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to write sprite")
	}
	return b, nil
}
