// Package image recompresses raster images and minifies SVG images.
package image

import (
	"bytes"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"go.trai.ch/kiln/internal/adapters/minify"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageOptimizer = (*Optimizer)(nil)

// JPEGQuality is the quality used when re-encoding JPEG files.
const JPEGQuality = 85

// Optimizer implements ports.ImageOptimizer. An optimized image is only
// kept when it is smaller than the original.
type Optimizer struct {
	svg ports.Minifier
}

// NewOptimizer creates an Optimizer that minifies SVG files with svg.
func NewOptimizer(svg ports.Minifier) *Optimizer {
	return &Optimizer{svg: svg}
}

// Optimize implements ports.ImageOptimizer. The format is chosen by extension.
func (o *Optimizer) Optimize(name string, b []byte) ([]byte, error) {
	var out []byte
	var err error

	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".png":
		out, err = optimizePNG(b)
	case ".jpg", ".jpeg":
		out, err = optimizeJPEG(b)
	case ".gif":
		out, err = optimizeGIF(b)
	case ".svg":
		out, err = o.svg.Minify(minify.MediaSVG, b)
	default:
		return nil, zerr.With(domain.ErrUnsupportedImage, "extension", ext)
	}
	if err != nil {
		return nil, err
	}

	if len(out) >= len(b) {
		return b, nil
	}
	return out, nil
}

func optimizePNG(b []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to decode png")
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, zerr.Wrap(err, "failed to encode png")
	}
	return buf.Bytes(), nil
}

func optimizeJPEG(b []byte) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to decode jpeg")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, zerr.Wrap(err, "failed to encode jpeg")
	}
	return buf.Bytes(), nil
}

func optimizeGIF(b []byte) ([]byte, error) {
	anim, err := gif.DecodeAll(bytes.NewReader(b))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to decode gif")
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, zerr.Wrap(err, "failed to encode gif")
	}
	return buf.Bytes(), nil
}
