// Package generator renders a QR code for a payload, optionally embeds an
// icon in its centre and persists the result.
package generator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/imgkit/internal/barcode"
	"github.com/MeKo-Tech/imgkit/internal/common"
	"github.com/MeKo-Tech/imgkit/internal/compositor"
	"github.com/MeKo-Tech/imgkit/internal/matrix"
	"github.com/MeKo-Tech/imgkit/internal/metrics"
	"github.com/MeKo-Tech/imgkit/internal/pdf"
	"github.com/MeKo-Tech/imgkit/internal/utils"
)

const (
	// DefaultSize is the output raster side length in pixels.
	DefaultSize = 1024
	// DefaultOutputDir receives generated files when no output path is given.
	DefaultOutputDir = "output"
)

// Config controls QR code generation.
type Config struct {
	Size          int
	Fill          color.Color
	Back          color.Color
	CoverageRatio float64
	HaloPadding   int
	OutputDir     string
	Verify        bool
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		Size:          DefaultSize,
		Fill:          color.Black,
		Back:          color.White,
		CoverageRatio: compositor.DefaultCoverageRatio,
		HaloPadding:   compositor.DefaultHaloPadding,
		OutputDir:     DefaultOutputDir,
	}
}

// Result is the outcome of one generation.
type Result struct {
	Image      image.Image
	OutputPath string
	WithIcon   bool
	// Warning is set when the coverage ratio is outside the recommended range.
	Warning *compositor.CoverageRatioWarning
	// Decoded holds the read-back text when verification ran.
	Decoded string
	Stages  *common.Stages
}

// Generator produces icon-embedded QR codes. It holds no per-request state.
type Generator struct {
	cfg     Config
	decoder barcode.Backend
}

// New returns a Generator for cfg. Zero or nil fields take their defaults.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Size == 0 {
		cfg.Size = def.Size
	}
	if cfg.Fill == nil {
		cfg.Fill = def.Fill
	}
	if cfg.Back == nil {
		cfg.Back = def.Back
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	return &Generator{cfg: cfg, decoder: barcode.NewBackend()}
}

// Config returns the configuration in effect.
func (g *Generator) Config() Config { return g.cfg }

// Generate renders payload and, when iconPath is non-empty, embeds the icon.
// Nothing is written to disk.
func (g *Generator) Generate(ctx context.Context, payload, iconPath string) (*Result, error) {
	res := &Result{WithIcon: iconPath != "", Stages: &common.Stages{}}

	if ok, warn := compositor.ValidateRatio(g.cfg.CoverageRatio); !ok {
		res.Warning = warn
		metrics.ObserveCoverageWarning()
		slog.Warn(warn.Error(), "ratio", g.cfg.CoverageRatio)
	}

	t := res.Stages.Start("render")
	qr, err := matrix.RenderRequest(matrix.Request{
		Payload: payload,
		Size:    g.cfg.Size,
		Fill:    g.cfg.Fill,
		Back:    g.cfg.Back,
		Level:   matrix.LevelH,
	})
	t.Stop()
	if err != nil {
		return nil, err
	}
	res.Image = qr

	if iconPath != "" {
		t = res.Stages.Start("load_icon")
		icon, err := compositor.LoadIcon(iconPath)
		t.Stop()
		if err != nil {
			return nil, err
		}
		q := utils.AssessImageQuality(icon)
		slog.Debug("Icon loaded", "path", iconPath, "width", q.Width, "height", q.Height,
			"alpha", q.HasAlpha, "grayscale", q.IsGrayscale)

		t = res.Stages.Start("composite")
		comp := compositor.New(compositor.Config{
			CoverageRatio: g.cfg.CoverageRatio,
			HaloPadding:   g.cfg.HaloPadding,
			BackColor:     g.cfg.Back,
		})
		res.Image, err = comp.Apply(qr, icon)
		t.Stop()
		if err != nil {
			return nil, err
		}
	}

	if g.cfg.Verify {
		t = res.Stages.Start("verify")
		res.Decoded, err = g.verify(ctx, res.Image, payload)
		t.Stop()
		if err != nil {
			metrics.ObserveVerifyFailure()
			return nil, err
		}
	}

	return res, nil
}

func (g *Generator) verify(ctx context.Context, img image.Image, payload string) (string, error) {
	decoded, err := g.decoder.Decode(ctx, img, barcode.Options{TryHarder: true})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &VerificationError{Payload: payload, Err: err}
	}
	if decoded.Value != payload {
		return decoded.Value, &VerificationError{Payload: payload, Decoded: decoded.Value}
	}
	return decoded.Value, nil
}

// Run generates the QR code and saves it to outputPath, or to
// DefaultOutputPath when outputPath is empty. No file is written when
// generation fails.
func (g *Generator) Run(ctx context.Context, payload, iconPath, outputPath string) (*Result, error) {
	res, err := g.Generate(ctx, payload, iconPath)
	if err != nil {
		return nil, err
	}

	if outputPath == "" {
		outputPath = DefaultOutputPath(g.cfg.OutputDir, iconPath)
	}
	if filepath.Ext(outputPath) == "" {
		outputPath += ".png"
	}

	t := res.Stages.Start("save")
	err = Save(res.Image, outputPath)
	t.Stop()
	if err != nil {
		return nil, err
	}
	res.OutputPath = outputPath

	metrics.ObserveQRCode(res.WithIcon)
	slog.Info("QR code generated", "output", outputPath, "size", g.cfg.Size,
		"icon", iconPath, "stages", res.Stages)
	return res, nil
}

// DefaultOutputPath returns <outputDir>/qrcode.png, or
// <outputDir>/qrcode_with_<icon stem>.png when an icon is used.
func DefaultOutputPath(outputDir, iconPath string) string {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	if iconPath == "" {
		return filepath.Join(outputDir, "qrcode.png")
	}
	stem := strings.TrimSuffix(filepath.Base(iconPath), filepath.Ext(iconPath))
	return filepath.Join(outputDir, "qrcode_with_"+stem+".png")
}

// Save writes img to path, creating the parent directory if needed. The
// format follows the extension; .pdf produces a single-page PDF.
func Save(img image.Image, path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if err := pdf.WriteImage(img, path); err != nil {
			return &utils.ImageProcessingError{Operation: "save", Err: fmt.Errorf("%s: %w", path, err)}
		}
		return nil
	}
	return utils.SaveImage(img, path)
}
