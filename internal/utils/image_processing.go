package utils

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}

// CropSquareCenter returns the largest centred square of img. For odd
// differences the extra pixel is dropped on the right or bottom.
func CropSquareCenter(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	m := min(w, h)
	left := (w - m) / 2
	top := (h - m) / 2
	rect := image.Rect(b.Min.X+left, b.Min.Y+top, b.Min.X+left+m, b.Min.Y+top+m)
	return imaging.Crop(img, rect)
}

// IsOpaque reports whether every pixel of img has full alpha.
func IsOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// ImageQuality summarises basic pixel properties of an image.
type ImageQuality struct {
	Width       int
	Height      int
	IsGrayscale bool
	HasAlpha    bool
}

// AssessImageQuality analyzes basic image properties.
func AssessImageQuality(img image.Image) ImageQuality {
	if img == nil {
		return ImageQuality{}
	}
	bounds := img.Bounds()
	isGrayscale, hasAlpha := analyzePixelProperties(img, bounds)
	return ImageQuality{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		IsGrayscale: isGrayscale,
		HasAlpha:    hasAlpha,
	}
}

// analyzePixelProperties checks if image is grayscale and has alpha channel.
func analyzePixelProperties(img image.Image, bounds image.Rectangle) (bool, bool) {
	isGrayscale := true
	hasAlpha := false

	for y := bounds.Min.Y; y < bounds.Max.Y && (isGrayscale || !hasAlpha); y++ {
		for x := bounds.Min.X; x < bounds.Max.X && (isGrayscale || !hasAlpha); x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0xffff {
				hasAlpha = true
			}
			if r != g || g != b {
				isGrayscale = false
			}
		}
	}
	return isGrayscale, hasAlpha
}
