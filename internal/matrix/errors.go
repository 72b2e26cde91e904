package matrix

import "fmt"

// EncodingError reports that a payload could not be turned into a QR symbol.
type EncodingError struct {
	PayloadLen int
	Level      Level
	Err        error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("qr encoding failed (payload %d bytes, level %s): %v", e.PayloadLen, e.Level, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// InvalidDimensionError reports a requested raster geometry the provider refuses.
type InvalidDimensionError struct {
	Width  int
	Height int
	Reason string
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid raster dimensions %dx%d: %s", e.Width, e.Height, e.Reason)
}
