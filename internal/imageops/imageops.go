// Package imageops holds the pixel-level utilities: threshold binarization
// and alpha silhouettes.
package imageops

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultThreshold splits gray levels into black (below) and white.
const DefaultThreshold = 128

// Luma returns the ITU-R 601-2 gray level of an RGB triple, rounded the same
// way common imaging libraries convert to 8-bit grayscale.
func Luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// Binarize converts img to pure black and white. Pixels whose gray level is
// below threshold become black, all others white. The result is opaque.
func Binarize(img image.Image, threshold int) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("binarize: image is nil")
	}
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if int(Luma(c.R, c.G, c.B)) < threshold {
			return color.NRGBA{A: 255}
		}
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}), nil
}

// ValidateThreshold checks that threshold is a gray level.
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 255 {
		return fmt.Errorf("binarize: threshold %d out of range 0-255", threshold)
	}
	return nil
}

// Silhouette paints every non-transparent pixel black, keeping its alpha.
// Fully transparent pixels are left as they are.
func Silhouette(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("silhouette: image is nil")
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if c.A > 0 {
			return color.NRGBA{A: c.A}
		}
		return c
	}), nil
}

// Binarizer is a batch.Processor for Binarize.
type Binarizer struct {
	Threshold int
}

func (b Binarizer) Name() string { return "binarize" }

func (b Binarizer) Process(_ context.Context, img image.Image) (image.Image, error) {
	return Binarize(img, b.Threshold)
}

// Silhouetter is a batch.Processor for Silhouette.
type Silhouetter struct{}

func (Silhouetter) Name() string { return "silhouette" }

func (Silhouetter) Process(_ context.Context, img image.Image) (image.Image, error) {
	return Silhouette(img)
}
