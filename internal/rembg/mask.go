package rembg

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/imgkit/internal/mempool"
	"github.com/disintegration/imaging"
)

// DefaultInputSize is the square input resolution of the rembg U2-Net models.
const DefaultInputSize = 320

// ImageNet statistics the U2-Net family was trained with.
var (
	mean = [3]float32{0.485, 0.456, 0.406}
	std  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocess resizes img to w x h and returns it as NCHW float32 data. Pixel
// values are divided by the largest channel value in the resized image before
// mean/std normalization. The slice is taken from mempool; callers may hand
// it back with mempool.PutFloat32 once the tensor is no longer needed.
func Preprocess(img image.Image, w, h int) ([]float32, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid model input size %dx%d", w, h)
	}

	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	var maxVal uint8
	for i := 0; i < len(resized.Pix); i += 4 {
		maxVal = max(maxVal, resized.Pix[i], resized.Pix[i+1], resized.Pix[i+2])
	}
	scale := float32(1)
	if maxVal > 0 {
		scale = float32(maxVal)
	}

	plane := w * h
	data := mempool.GetFloat32(3 * plane)
	for y := range h {
		row := resized.Pix[y*resized.Stride:]
		for x := range w {
			px := row[x*4 : x*4+3]
			idx := y*w + x
			for c := range 3 {
				data[c*plane+idx] = (float32(px[c])/scale - mean[c]) / std[c]
			}
		}
	}
	return data, nil
}

// NormalizeMask min-max scales a w x h saliency map into a grayscale mask.
// A constant map yields a fully opaque mask.
func NormalizeMask(pred []float32, w, h int) (*image.Gray, error) {
	if len(pred) < w*h || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("saliency map has %d values, want %dx%d", len(pred), w, h)
	}
	pred = pred[:w*h]

	lo, hi := pred[0], pred[0]
	for _, v := range pred {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	mask := image.NewGray(image.Rect(0, 0, w, h))
	if hi == lo {
		for i := range mask.Pix {
			mask.Pix[i] = 255
		}
		return mask, nil
	}

	span := hi - lo
	for i, v := range pred {
		mask.Pix[i] = uint8((v-lo)/span*255 + 0.5)
	}
	return mask, nil
}

// ApplyMask resizes mask to the bounds of img and uses it as alpha. Existing
// transparency in img is kept: the result alpha is the product of both.
func ApplyMask(img image.Image, mask image.Image) (*image.NRGBA, error) {
	if img == nil || mask == nil {
		return nil, errors.New("nil image or mask")
	}
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}

	alpha := imaging.Resize(mask, w, h, imaging.Lanczos)
	for y := range h {
		for x := range w {
			m := alpha.Pix[y*alpha.Stride+x*4]
			i := y*src.Stride + x*4
			src.Pix[i+3] = uint8((uint16(src.Pix[i+3])*uint16(m) + 127) / 255)
		}
	}
	return src, nil
}
