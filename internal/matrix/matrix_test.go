package matrix

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_TwoColourSquare(t *testing.T) {
	fill := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	back := color.NRGBA{R: 250, G: 240, B: 230, A: 255}

	img, err := Render("https://example.com", LevelH, DefaultBoxSize, DefaultBorder, fill, back)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, b.Dx(), b.Dy())
	assert.Equal(t, 0, b.Dx()%DefaultBoxSize)

	var sawFill, sawBack bool
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			switch c {
			case fill:
				sawFill = true
			case back:
				sawBack = true
			default:
				t.Fatalf("unexpected colour %v at (%d,%d)", c, x, y)
			}
		}
	}
	assert.True(t, sawFill)
	assert.True(t, sawBack)
}

func TestRender_QuietZoneIsBackground(t *testing.T) {
	img, err := Render("quiet", LevelM, 3, 4, color.Black, color.White)
	require.NoError(t, err)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	side := img.Bounds().Dx()
	for i := 0; i < side; i++ {
		for d := 0; d < 4*3; d++ {
			assert.Equal(t, white, img.NRGBAAt(i, d))
			assert.Equal(t, white, img.NRGBAAt(d, i))
		}
	}
}

func TestRender_SideMatchesModuleCount(t *testing.T) {
	modules, err := Modules("hello", LevelH)
	require.NoError(t, err)
	require.NotEmpty(t, modules)
	assert.Len(t, modules[0], len(modules))

	img, err := Render("hello", LevelH, 2, 1, color.Black, color.White)
	require.NoError(t, err)
	assert.Equal(t, (len(modules)+2)*2, img.Bounds().Dx())
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("", LevelH, 10, 4, color.Black, color.White)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.True(t, errors.Is(err, ErrEmptyPayload))

	_, err = Render(strings.Repeat("x", 8000), LevelH, 10, 4, color.Black, color.White)
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, LevelH, encErr.Level)

	var dimErr *InvalidDimensionError
	_, err = Render("ok", LevelH, 0, 4, color.Black, color.White)
	require.ErrorAs(t, err, &dimErr)

	_, err = Render("ok", LevelH, 10, -1, color.Black, color.White)
	require.ErrorAs(t, err, &dimErr)
}

func TestResize(t *testing.T) {
	raw, err := Render("resize me", LevelH, DefaultBoxSize, DefaultBorder, color.Black, color.White)
	require.NoError(t, err)

	out, err := Resize(raw, 256, 256)
	require.NoError(t, err)
	assert.Equal(t, 256, out.Bounds().Dx())
	assert.Equal(t, 256, out.Bounds().Dy())

	for i := 3; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 255 {
			t.Fatalf("pixel %d not opaque: alpha=%d", i/4, out.Pix[i])
		}
	}

	var dimErr *InvalidDimensionError
	_, err = Resize(raw, 256, 200)
	require.ErrorAs(t, err, &dimErr)
	assert.Contains(t, dimErr.Error(), "square")

	_, err = Resize(raw, 0, 0)
	require.ErrorAs(t, err, &dimErr)
}

func TestRenderRequest(t *testing.T) {
	img, err := RenderRequest(Request{Payload: "https://example.com", Size: 300, Level: LevelH})
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	// Top-left corner lies in the quiet zone.
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(0, 0))

	var dimErr *InvalidDimensionError
	_, err = RenderRequest(Request{Payload: "x", Size: -5})
	require.ErrorAs(t, err, &dimErr)
}
