package compositor

import "fmt"

// InvalidRasterError reports a QR raster or icon the compositor refuses to work on.
type InvalidRasterError struct {
	Width  int
	Height int
	Reason string
}

func (e *InvalidRasterError) Error() string {
	return fmt.Sprintf("invalid raster %dx%d: %s", e.Width, e.Height, e.Reason)
}

// InvalidRatioError reports a coverage ratio that cannot be turned into a pixel size.
type InvalidRatioError struct {
	Ratio float64
}

func (e *InvalidRatioError) Error() string {
	return fmt.Sprintf("invalid coverage ratio %v", e.Ratio)
}

// IconLoadError reports an icon file that is missing or cannot be decoded.
type IconLoadError struct {
	Path string
	Err  error
}

func (e *IconLoadError) Error() string {
	return fmt.Sprintf("cannot load icon %s: %v", e.Path, e.Err)
}

func (e *IconLoadError) Unwrap() error {
	return e.Err
}

// CoverageRatioWarning is a non-fatal notice that the icon may cover too
// little or too much of the symbol.
type CoverageRatioWarning struct {
	Ratio float64
	Min   float64
	Max   float64
}

func (w *CoverageRatioWarning) Error() string {
	return fmt.Sprintf("icon size ratio %.2f is outside the recommended range %.1f-%.1f", w.Ratio, w.Min, w.Max)
}
