// Package compositor embeds an icon in the centre of a rendered QR raster.
//
// The icon is square-cropped, resized to a fraction of the QR side, flattened
// over the background colour and pasted inside a background-coloured halo.
// Modules under the halo are destroyed; level-H error correction is expected
// to recover them.
package compositor

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/MeKo-Tech/imgkit/internal/utils"
	"github.com/disintegration/imaging"
)

const (
	// DefaultCoverageRatio is the icon side as a fraction of the QR side.
	DefaultCoverageRatio = 0.3
	// DefaultHaloPadding is the halo width in pixels on each side of the icon.
	DefaultHaloPadding = 10
)

// Config controls how an icon is embedded.
type Config struct {
	CoverageRatio float64
	HaloPadding   int
	BackColor     color.Color
}

// DefaultConfig returns the standard embedding parameters.
func DefaultConfig() Config {
	return Config{
		CoverageRatio: DefaultCoverageRatio,
		HaloPadding:   DefaultHaloPadding,
		BackColor:     color.White,
	}
}

// Compositor embeds icons according to a fixed Config.
type Compositor struct {
	cfg Config
}

// New returns a Compositor. A negative halo padding is treated as zero, a nil
// background as white, and the background alpha is forced to opaque.
func New(cfg Config) *Compositor {
	if cfg.HaloPadding < 0 {
		cfg.HaloPadding = 0
	}
	if cfg.BackColor == nil {
		cfg.BackColor = color.White
	}
	back := color.NRGBAModel.Convert(cfg.BackColor).(color.NRGBA)
	back.A = 255
	cfg.BackColor = back
	return &Compositor{cfg: cfg}
}

// Config returns the configuration in effect.
func (c *Compositor) Config() Config { return c.cfg }

// Composite embeds icon into qr using the default halo padding.
func Composite(qr, icon image.Image, coverageRatio float64, back color.Color) (image.Image, error) {
	return New(Config{CoverageRatio: coverageRatio, HaloPadding: DefaultHaloPadding, BackColor: back}).Apply(qr, icon)
}

// Apply returns qr with icon embedded in its centre. With a nil icon qr is
// returned unchanged. The result has the same size as qr and is fully opaque.
func (c *Compositor) Apply(qr, icon image.Image) (image.Image, error) {
	if err := validateRaster(qr); err != nil {
		return nil, err
	}
	if icon == nil {
		return qr, nil
	}
	if icon.Bounds().Empty() {
		b := icon.Bounds()
		return nil, &InvalidRasterError{Width: b.Dx(), Height: b.Dy(), Reason: "icon has no pixels"}
	}
	r := c.cfg.CoverageRatio
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, &InvalidRatioError{Ratio: r}
	}

	side := qr.Bounds().Dx()
	iconPixels := IconPixels(side, r)
	halo := c.buildHalo(icon, iconPixels)
	haloSide := halo.Bounds().Dx()

	pos := floorDiv(side-haloSide, 2)
	slog.Debug("Embedding icon",
		"qr_side", side,
		"icon_pixels", iconPixels,
		"halo_side", haloSide,
		"offset", pos,
		"icon_has_alpha", !utils.IsOpaque(icon))

	return imaging.Paste(qr, halo, image.Pt(pos, pos)), nil
}

// buildHalo squares, resizes and flattens the icon onto a background-filled
// canvas that is HaloPadding pixels wider on every side.
func (c *Compositor) buildHalo(icon image.Image, iconPixels int) *image.NRGBA {
	pad := c.cfg.HaloPadding
	haloSide := iconPixels + 2*pad
	halo := imaging.New(haloSide, haloSide, c.cfg.BackColor)
	if iconPixels == 0 {
		return halo
	}

	square := utils.CropSquareCenter(icon)
	resized := imaging.Resize(square, iconPixels, iconPixels, imaging.Lanczos)

	// Overlay blends by source alpha onto the opaque halo, which flattens any
	// transparency against the background colour.
	return imaging.Overlay(halo, resized, image.Pt(pad, pad), 1.0)
}

// IconPixels is the icon side length for a QR side and coverage ratio,
// floor(side*ratio) clamped to [0, side].
func IconPixels(side int, ratio float64) int {
	if ratio >= 1 {
		return side
	}
	n := int(math.Floor(float64(side) * ratio))
	if n < 0 {
		return 0
	}
	return n
}

// HaloSide is the side length of the square region an icon replaces.
func HaloSide(side int, ratio float64, pad int) int {
	return IconPixels(side, ratio) + 2*max(pad, 0)
}

func validateRaster(qr image.Image) error {
	if qr == nil {
		return &InvalidRasterError{Reason: "QR raster is nil"}
	}
	b := qr.Bounds()
	if b.Empty() || b.Dx() != b.Dy() {
		return &InvalidRasterError{Width: b.Dx(), Height: b.Dy(), Reason: "QR raster must be a non-empty square"}
	}
	if !utils.IsOpaque(qr) {
		return &InvalidRasterError{Width: b.Dx(), Height: b.Dy(), Reason: "QR raster must be fully opaque"}
	}
	return nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// LoadIcon reads and decodes an icon file.
func LoadIcon(path string) (image.Image, error) {
	img, _, err := utils.LoadImage(path)
	if err != nil {
		return nil, &IconLoadError{Path: path, Err: err}
	}
	return img, nil
}
