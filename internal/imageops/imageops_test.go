package imageops

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/imgkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestLuma(t *testing.T) {
	assert.Equal(t, uint8(0), Luma(0, 0, 0))
	assert.Equal(t, uint8(255), Luma(255, 255, 255))
	assert.Equal(t, uint8(76), Luma(255, 0, 0))
	assert.Equal(t, uint8(150), Luma(0, 255, 0))
	assert.Equal(t, uint8(29), Luma(0, 0, 255))
}

func TestBinarize_Threshold(t *testing.T) {
	img := testutil.GradientImage(256, 1)

	out, err := Binarize(img, DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, black, out.NRGBAAt(127, 0))
	assert.Equal(t, white, out.NRGBAAt(128, 0))
	assert.True(t, out.Opaque())

	for x := range 256 {
		c := out.NRGBAAt(x, 0)
		require.True(t, c == black || c == white, "pixel %d is %v", x, c)
	}

	out, err = Binarize(img, 0)
	require.NoError(t, err)
	assert.Equal(t, white, out.NRGBAAt(0, 0))

	out, err = Binarize(img, 255)
	require.NoError(t, err)
	assert.Equal(t, black, out.NRGBAAt(254, 0))
	assert.Equal(t, white, out.NRGBAAt(255, 0))
}

func TestBinarize_UsesLuma(t *testing.T) {
	// Pure red is dark (luma 76), pure green is light (luma 150).
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})

	out, err := Binarize(img, 128)
	require.NoError(t, err)
	assert.Equal(t, black, out.NRGBAAt(0, 0))
	assert.Equal(t, white, out.NRGBAAt(1, 0))
}

func TestBinarize_Errors(t *testing.T) {
	_, err := Binarize(nil, 128)
	assert.Error(t, err)
	_, err = Binarize(testutil.SolidImage(1, 1, color.White), -1)
	assert.Error(t, err)
	_, err = Binarize(testutil.SolidImage(1, 1, color.White), 256)
	assert.Error(t, err)
}

func TestSilhouette(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 220, B: 30, A: 90})
	img.SetNRGBA(2, 0, color.NRGBA{})

	out, err := Silhouette(img)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{A: 90}, out.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(2, 0))

	_, err = Silhouette(nil)
	assert.Error(t, err)
}

func TestSilhouette_CircleIcon(t *testing.T) {
	icon := testutil.CircleIcon(16, color.NRGBA{R: 30, G: 144, B: 255, A: 255})
	out, err := Silhouette(icon)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(8, 8))
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)
}

func TestProcessors(t *testing.T) {
	ctx := context.Background()
	img := testutil.GradientImage(10, 1)

	b := Binarizer{Threshold: 128}
	assert.Equal(t, "binarize", b.Name())
	out, err := b.Process(ctx, img)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), out.Bounds())

	s := Silhouetter{}
	assert.Equal(t, "silhouette", s.Name())
	out, err = s.Process(ctx, img)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), out.Bounds())
}
