package support

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/MeKo-Tech/imgkit/internal/barcode"
	"github.com/MeKo-Tech/imgkit/internal/pdf"
	"github.com/MeKo-Tech/imgkit/internal/testutil"
	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"
)

func (testCtx *TestContext) save(img image.Image, name string) error {
	path := testCtx.path(name)
	if err := testutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return imaging.Save(img, path)
}

// anIconImage writes a round, transparent-cornered icon.
func (testCtx *TestContext) anIconImage(name string, size int) error {
	return testCtx.save(testutil.CircleIcon(size, color.NRGBA{R: 30, G: 144, B: 255, A: 255}), name)
}

// aGradientImage writes an opaque left-to-right gray ramp.
func (testCtx *TestContext) aGradientImage(name string, w, h int) error {
	return testCtx.save(testutil.GradientImage(w, h), name)
}

func (testCtx *TestContext) aCorruptImage(name string) error {
	return testCtx.aFileContaining(name, &godog.DocString{Content: "not an image"})
}

func (testCtx *TestContext) load(name string) (image.Image, error) {
	img, err := imaging.Open(testCtx.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return img, nil
}

// theImageShouldBePixels checks the image dimensions.
func (testCtx *TestContext) theImageShouldBePixels(name string, w, h int) error {
	img, err := testCtx.load(name)
	if err != nil {
		return err
	}
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		return fmt.Errorf("%s is %dx%d, want %dx%d", name, b.Dx(), b.Dy(), w, h)
	}
	return nil
}

// theQRCodeShouldDecodeTo decodes the symbol in the image.
func (testCtx *TestContext) theQRCodeShouldDecodeTo(name, payload string) error {
	img, err := testCtx.load(name)
	if err != nil {
		return err
	}
	res, err := barcode.NewBackend().Decode(context.Background(), img, barcode.Options{TryHarder: true})
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	if res.Value != payload {
		return fmt.Errorf("%s decodes to %q, want %q", name, res.Value, payload)
	}
	return nil
}

// theImageShouldBeBlackAndWhite checks every pixel is pure black or white.
func (testCtx *TestContext) theImageShouldBeBlackAndWhite(name string) error {
	img, err := testCtx.load(name)
	if err != nil {
		return err
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != g || g != bl || (r != 0 && r != 0xffff) {
				return fmt.Errorf("%s pixel (%d,%d) is not black or white", name, x, y)
			}
		}
	}
	return nil
}

// theImageShouldBeASilhouette checks every visible pixel is black and that
// the corners stay transparent.
func (testCtx *TestContext) theImageShouldBeASilhouette(name string) error {
	img, err := testCtx.load(name)
	if err != nil {
		return err
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a != 0 && (r|g|bl) != 0 {
				return fmt.Errorf("%s pixel (%d,%d) is visible but not black", name, x, y)
			}
		}
	}
	if _, _, _, a := img.At(b.Min.X, b.Min.Y).RGBA(); a != 0 {
		return fmt.Errorf("%s corner is not transparent", name)
	}
	return nil
}

// theFileShouldBeAPDFWithPages checks a generated PDF.
func (testCtx *TestContext) theFileShouldBeAPDFWithPages(name string, pages int) error {
	n, err := pdf.PageCount(testCtx.path(name))
	if err != nil {
		return fmt.Errorf("%s is not a readable PDF: %w", name, err)
	}
	if n != pages {
		return fmt.Errorf("%s has %d page(s), want %d", name, n, pages)
	}
	return nil
}

// RegisterImageSteps registers fixture and image assertion steps.
func (testCtx *TestContext) RegisterImageSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an icon image "([^"]*)" of (\d+) pixels$`, testCtx.anIconImage)
	sc.Step(`^a gradient image "([^"]*)" of (\d+)x(\d+) pixels$`, testCtx.aGradientImage)
	sc.Step(`^a corrupt image "([^"]*)"$`, testCtx.aCorruptImage)

	sc.Step(`^the image "([^"]*)" should be (\d+)x(\d+) pixels$`, testCtx.theImageShouldBePixels)
	sc.Step(`^the QR code in "([^"]*)" should decode to "([^"]*)"$`, testCtx.theQRCodeShouldDecodeTo)
	sc.Step(`^the image "([^"]*)" should be black and white$`, testCtx.theImageShouldBeBlackAndWhite)
	sc.Step(`^the image "([^"]*)" should be a silhouette$`, testCtx.theImageShouldBeASilhouette)
	sc.Step(`^the file "([^"]*)" should be a PDF with (\d+) pages?$`, testCtx.theFileShouldBeAPDFWithPages)
}
