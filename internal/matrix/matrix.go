// Package matrix renders QR module grids as flat two-colour rasters.
//
// Symbol encoding is delegated to github.com/skip2/go-qrcode; this package
// only decides module size, quiet zone and colours, and resamples the result
// to the requested output size.
package matrix

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	goqr "github.com/skip2/go-qrcode"
)

const (
	// DefaultBoxSize is the edge length of one module in the pre-resize raster.
	DefaultBoxSize = 10
	// DefaultBorder is the quiet zone width in modules.
	DefaultBorder = 4
)

// ErrEmptyPayload is wrapped by EncodingError when there is nothing to encode.
var ErrEmptyPayload = errors.New("payload is empty")

// Level is a QR error-correction level.
type Level int

const (
	LevelL Level = iota
	LevelM
	LevelQ
	LevelH
)

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	case LevelH:
		return "H"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

func (l Level) recovery() goqr.RecoveryLevel {
	switch l {
	case LevelL:
		return goqr.Low
	case LevelM:
		return goqr.Medium
	case LevelQ:
		return goqr.High
	default:
		return goqr.Highest
	}
}

// Request describes one QR raster to produce.
type Request struct {
	Payload string
	Size    int
	Fill    color.Color
	Back    color.Color
	Level   Level
}

// Modules returns the module grid for payload without any quiet zone.
// true marks a dark module.
func Modules(payload string, level Level) ([][]bool, error) {
	if payload == "" {
		return nil, &EncodingError{Level: level, Err: ErrEmptyPayload}
	}
	code, err := goqr.New(payload, level.recovery())
	if err != nil {
		return nil, &EncodingError{PayloadLen: len(payload), Level: level, Err: err}
	}
	code.DisableBorder = true
	return code.Bitmap(), nil
}

// Render draws the symbol for payload with boxSize pixels per module and a
// quiet zone of border modules. The result is square and contains only the
// fill and back colours.
func Render(payload string, level Level, boxSize, border int, fill, back color.Color) (*image.NRGBA, error) {
	if boxSize < 1 {
		return nil, &InvalidDimensionError{Width: boxSize, Height: boxSize, Reason: "module box size must be at least 1"}
	}
	if border < 0 {
		return nil, &InvalidDimensionError{Width: border, Height: border, Reason: "border must not be negative"}
	}

	modules, err := Modules(payload, level)
	if err != nil {
		return nil, err
	}

	n := len(modules)
	side := (n + 2*border) * boxSize
	img := imaging.New(side, side, back)

	fc := color.NRGBAModel.Convert(fill).(color.NRGBA)
	offset := border * boxSize
	for row := range modules {
		for col, dark := range modules[row] {
			if !dark {
				continue
			}
			x0 := offset + col*boxSize
			y0 := offset + row*boxSize
			for y := y0; y < y0+boxSize; y++ {
				for x := x0; x < x0+boxSize; x++ {
					img.SetNRGBA(x, y, fc)
				}
			}
		}
	}
	return img, nil
}

// Resize resamples a raster to width x height with a Lanczos filter.
// Only square, positive targets are accepted.
func Resize(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, &InvalidDimensionError{Width: width, Height: height, Reason: "size must be positive"}
	}
	if width != height {
		return nil, &InvalidDimensionError{Width: width, Height: height, Reason: "QR raster must be square"}
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// RenderRequest renders req with the default module box and quiet zone and
// resamples it to req.Size.
func RenderRequest(req Request) (*image.NRGBA, error) {
	if req.Size <= 0 {
		return nil, &InvalidDimensionError{Width: req.Size, Height: req.Size, Reason: "size must be positive"}
	}
	fill, back := req.Fill, req.Back
	if fill == nil {
		fill = color.Black
	}
	if back == nil {
		back = color.White
	}
	raw, err := Render(req.Payload, req.Level, DefaultBoxSize, DefaultBorder, fill, back)
	if err != nil {
		return nil, err
	}
	return Resize(raw, req.Size, req.Size)
}
