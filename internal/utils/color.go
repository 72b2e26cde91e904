package utils

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

var nameFolder = cases.Fold()

// ParseColor resolves a CSS/SVG colour name ("black", "DarkSlateBlue") or a
// hex triplet ("#1e90ff", "#fff", with or without the leading '#').
// The result is always opaque.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return color.NRGBA{}, fmt.Errorf("empty colour")
	}

	if c, ok := colornames.Map[nameFolder.String(v)]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
	}

	hex := strings.TrimPrefix(v, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.NRGBA{}, fmt.Errorf("unknown colour %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("unknown colour %q", s)
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}

// FormatColor renders c as #rrggbb.
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
