package barcode

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/common"
	"github.com/makiuchi-d/gozxing/qrcode"
)

type gozxingBackend struct{}

func (b *gozxingBackend) Decode(ctx context.Context, img image.Image, opts Options) (Result, error) {
	if img == nil {
		return Result{}, errors.New("barcode: image is nil")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if !opts.ROI.Empty() {
		if roiImg, ok := subImage(img, opts.ROI); ok {
			img = roiImg
		}
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if opts.PureBarcode {
		hints[gozxing.DecodeHintType_PURE_BARCODE] = true
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(common.NewHybridBinarizer(source))
	if err != nil {
		return Result{}, fmt.Errorf("barcode: binarize: %w", err)
	}

	r, err := qrcode.NewQRCodeReader().Decode(bitmap, hints)
	if err != nil {
		var notFound gozxing.NotFoundException
		var checksum gozxing.ChecksumException
		var format gozxing.FormatException
		if errors.As(err, &notFound) || errors.As(err, &checksum) || errors.As(err, &format) {
			return Result{}, fmt.Errorf("%w: %v", ErrNoSymbol, err)
		}
		return Result{}, fmt.Errorf("barcode: decode: %w", err)
	}

	var points []Point
	if pts := r.GetResultPoints(); len(pts) > 0 {
		points = make([]Point, 0, len(pts))
		for _, p := range pts {
			points = append(points, Point{X: int(p.GetX()), Y: int(p.GetY())})
		}
	}
	return Result{Value: r.GetText(), Points: points, BBox: rectFromPoints(points)}, nil
}

func rectFromPoints(pts []Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// subImage returns the part of img inside r, copying when img has no SubImage.
func subImage(img image.Image, r image.Rectangle) (image.Image, bool) {
	rb := r.Intersect(img.Bounds())
	if rb.Empty() {
		return nil, false
	}
	type subImager interface{ SubImage(r image.Rectangle) image.Image }
	if s, ok := img.(subImager); ok {
		return s.SubImage(rb), true
	}
	dst := image.NewRGBA(image.Rect(0, 0, rb.Dx(), rb.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rb.Min, draw.Src)
	return dst, true
}
