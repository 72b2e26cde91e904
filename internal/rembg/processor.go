package rembg

import (
	"context"
	"image"
)

// OutputSuffix is appended to the input file stem; results are always PNG.
const (
	OutputSuffix    = "_no_bg"
	OutputExtension = ".png"
)

// Processor adapts a Remover to the batch runner.
type Processor struct {
	Remover Remover
}

// Name identifies the operation in logs and metrics.
func (Processor) Name() string { return "removebg" }

// Process removes the background of img.
func (p Processor) Process(ctx context.Context, img image.Image) (image.Image, error) {
	return p.Remover.Remove(ctx, img)
}
