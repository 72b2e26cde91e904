package barcode

import (
	"context"
	"errors"
	"image"
)

// ErrNoSymbol is returned when no QR symbol could be located or decoded.
var ErrNoSymbol = errors.New("barcode: no QR symbol found")

// Options controls decoding behavior.
type Options struct {
	// TryHarder enables more exhaustive search (slower but more robust).
	TryHarder bool

	// PureBarcode hints that the image contains only a symbol and its quiet
	// zone, as produced by a generator.
	PureBarcode bool

	// ROI optionally restricts decoding to a sub-rectangle of the image.
	// If zero-sized or out of bounds, it is ignored.
	ROI image.Rectangle
}

// Point is an integer point in image coordinates.
type Point struct {
	X int
	Y int
}

// Result represents a decoded symbol.
type Result struct {
	Value  string
	Points []Point          // finder pattern centres if available
	BBox   image.Rectangle // bounding box derived from Points
}

// Backend is a QR decoder implementation.
type Backend interface {
	Decode(ctx context.Context, img image.Image, opts Options) (Result, error)
}

// NewBackend returns the default backend implementation.
func NewBackend() Backend { return &gozxingBackend{} }
