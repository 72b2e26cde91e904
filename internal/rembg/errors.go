package rembg

import "fmt"

// ModelError reports a failure to load or run the segmentation model.
type ModelError struct {
	Path string
	Op   string
	Err  error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("segmentation model %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }
