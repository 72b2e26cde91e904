package config

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/MeKo-Tech/imgkit/internal/batch"
	"github.com/MeKo-Tech/imgkit/internal/generator"
	"github.com/MeKo-Tech/imgkit/internal/imageops"
	"github.com/MeKo-Tech/imgkit/internal/models"
	"github.com/MeKo-Tech/imgkit/internal/onnx"
	"github.com/MeKo-Tech/imgkit/internal/rembg"
	"github.com/MeKo-Tech/imgkit/internal/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for imgkit. It covers every
// subcommand and is loaded from configuration files, environment variables
// and command-line flags.
type Config struct {
	// Global settings
	ModelsDir   string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose     bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`

	QRCode     QRCodeConfig     `mapstructure:"qrcode" yaml:"qrcode" json:"qrcode"`
	Binarize   BinarizeConfig   `mapstructure:"binarize" yaml:"binarize" json:"binarize"`
	Silhouette SilhouetteConfig `mapstructure:"silhouette" yaml:"silhouette" json:"silhouette"`
	RemoveBG   RemoveBGConfig   `mapstructure:"removebg" yaml:"removebg" json:"removebg"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output" json:"output"`
}

// QRCodeConfig contains QR code generation settings.
type QRCodeConfig struct {
	Size        int     `mapstructure:"size" yaml:"size" json:"size"`
	FillColor   string  `mapstructure:"fill_color" yaml:"fill_color" json:"fill_color"`
	BackColor   string  `mapstructure:"back_color" yaml:"back_color" json:"back_color"`
	IconSize    float64 `mapstructure:"icon_size" yaml:"icon_size" json:"icon_size"`
	HaloPadding int     `mapstructure:"halo_padding" yaml:"halo_padding" json:"halo_padding"`
	OutputDir   string  `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Verify      bool    `mapstructure:"verify" yaml:"verify" json:"verify"`
}

// BinarizeConfig contains black/white conversion settings.
type BinarizeConfig struct {
	Threshold int    `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
}

// SilhouetteConfig contains silhouette extraction settings.
type SilhouetteConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
}

// RemoveBGConfig contains background removal settings.
type RemoveBGConfig struct {
	Model      string         `mapstructure:"model" yaml:"model" json:"model"`
	OutputDir  string         `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	NumThreads int            `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
	GPU        onnx.GPUConfig `mapstructure:"gpu" yaml:"gpu" json:"gpu"`
}

// OutputConfig contains batch summary settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	gen := generator.DefaultConfig()
	return Config{
		LogLevel: "info",
		QRCode: QRCodeConfig{
			Size:        gen.Size,
			FillColor:   "black",
			BackColor:   "white",
			IconSize:    gen.CoverageRatio,
			HaloPadding: gen.HaloPadding,
			OutputDir:   gen.OutputDir,
		},
		Binarize: BinarizeConfig{Threshold: imageops.DefaultThreshold},
		RemoveBG: RemoveBGConfig{
			Model:     models.DefaultSegmentationModel,
			OutputDir: "output",
			GPU:       onnx.DefaultGPUConfig(),
		},
		Output: OutputConfig{Format: "text"},
	}
}

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"text", "json"}
)

// Validate validates the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.QRCode.Size <= 0 {
		return fmt.Errorf("invalid qrcode size: %d (must be positive)", c.QRCode.Size)
	}
	if math.IsNaN(c.QRCode.IconSize) || math.IsInf(c.QRCode.IconSize, 0) {
		return fmt.Errorf("invalid icon size ratio: %v", c.QRCode.IconSize)
	}
	if c.QRCode.HaloPadding < 0 {
		return fmt.Errorf("invalid halo padding: %d (must not be negative)", c.QRCode.HaloPadding)
	}
	if _, err := utils.ParseColor(c.QRCode.FillColor); err != nil {
		return fmt.Errorf("invalid fill color: %w", err)
	}
	if _, err := utils.ParseColor(c.QRCode.BackColor); err != nil {
		return fmt.Errorf("invalid back color: %w", err)
	}

	if c.Binarize.Threshold < 0 || c.Binarize.Threshold > 255 {
		return fmt.Errorf("invalid threshold: %d (must be between 0 and 255)", c.Binarize.Threshold)
	}

	if c.RemoveBG.NumThreads < 0 {
		return fmt.Errorf("invalid removebg threads: %d (must not be negative)", c.RemoveBG.NumThreads)
	}
	if err := onnx.ValidateGPUConfig(c.RemoveBG.GPU); err != nil {
		return fmt.Errorf("invalid removebg gpu settings: %w", err)
	}
	return nil
}

// ToGeneratorConfig converts the qrcode section to a generator.Config.
func (c *Config) ToGeneratorConfig() (generator.Config, error) {
	fill, err := utils.ParseColor(c.QRCode.FillColor)
	if err != nil {
		return generator.Config{}, fmt.Errorf("invalid fill color: %w", err)
	}
	back, err := utils.ParseColor(c.QRCode.BackColor)
	if err != nil {
		return generator.Config{}, fmt.Errorf("invalid back color: %w", err)
	}
	return generator.Config{
		Size:          c.QRCode.Size,
		Fill:          fill,
		Back:          back,
		CoverageRatio: c.QRCode.IconSize,
		HaloPadding:   c.QRCode.HaloPadding,
		OutputDir:     c.QRCode.OutputDir,
		Verify:        c.QRCode.Verify,
	}, nil
}

// ToRemoverConfig converts the removebg section to a rembg.Config, resolving
// the model against ModelsDir.
func (c *Config) ToRemoverConfig() rembg.Config {
	return rembg.Config{
		ModelPath:  models.GetSegmentationModelPath(c.ModelsDir, c.RemoveBG.Model),
		NumThreads: c.RemoveBG.NumThreads,
		GPU:        c.RemoveBG.GPU,
	}
}

// BatchConfig returns the batch runner settings shared by the file commands.
func (c *Config) BatchConfig(outputDir, suffix string) *batch.Config {
	return &batch.Config{
		OutputDir: outputDir,
		Suffix:    suffix,
		Format:    c.Output.Format,
	}
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
