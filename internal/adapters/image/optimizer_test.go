package image_test

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/image"
	"go.trai.ch/kiln/internal/adapters/minify"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func gradient() *stdimage.RGBA {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 64, 64))
	for x := range 64 {
		for y := range 64 {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	return img
}

func TestOptimize_PNG(t *testing.T) {
	var src bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&src, gradient()))

	out, err := image.NewOptimizer(minify.New()).Optimize("logo.png", src.Bytes())
	require.NoError(t, err)
	assert.Less(t, len(out), src.Len())

	_, err = png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
}

func TestOptimize_JPEGNeverGrows(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, gradient(), &jpeg.Options{Quality: 10}))

	out, err := image.NewOptimizer(minify.New()).Optimize("photo.JPG", src.Bytes())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), src.Len())
}

func TestOptimize_GIF(t *testing.T) {
	pal := stdimage.NewPaletted(stdimage.Rect(0, 0, 8, 8), color.Palette{color.Black, color.White})
	var src bytes.Buffer
	require.NoError(t, gif.Encode(&src, pal, nil))

	out, err := image.NewOptimizer(minify.New()).Optimize("dot.gif", src.Bytes())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), src.Len())
}

func TestOptimize_SVGUsesMinifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMinifier(ctrl)
	m.EXPECT().Minify(minify.MediaSVG, []byte("<svg>  </svg>")).Return([]byte("<svg/>"), nil)

	out, err := image.NewOptimizer(m).Optimize("icon.svg", []byte("<svg>  </svg>"))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(out))
}

func TestOptimize_Errors(t *testing.T) {
	o := image.NewOptimizer(minify.New())

	_, err := o.Optimize("notes.txt", []byte("x"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnsupportedImage.Error())

	_, err = o.Optimize("broken.png", []byte("not a png"))
	require.Error(t, err)
}
