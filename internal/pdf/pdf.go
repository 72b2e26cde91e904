// Package pdf writes rasters as single-page PDF documents.
package pdf

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/imgkit/internal/utils"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// WriteImage stores img as a one-page PDF at path. The page takes the
// dimensions of the image. An existing file at path is replaced atomically.
func WriteImage(img image.Image, path string) error {
	if img == nil {
		return errors.New("nil image")
	}

	tempDir, err := os.MkdirTemp("", "imgkit-pdf-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	pngPath := filepath.Join(tempDir, "page.png")
	data, err := utils.EncodeImage(img, pngPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(pngPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to stage page image: %w", err)
	}

	// ImportImagesFile appends to an existing output, so build into a fresh file.
	pdfPath := filepath.Join(tempDir, "out.pdf")
	if err := api.ImportImagesFile([]string{pngPath}, pdfPath, pdfcpu.DefaultImportConfig(), nil); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}

	doc, err := os.ReadFile(pdfPath) //nolint:gosec // G304: path is inside our own temp dir
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}
	return utils.WriteFileAtomic(path, doc, 0o644)
}

// PageCount returns the number of pages of the PDF at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	return n, nil
}
