package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/imgkit/internal/config"
	"github.com/MeKo-Tech/imgkit/internal/metrics"
	"github.com/MeKo-Tech/imgkit/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration, loaded before every command runs.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "imgkit",
	Short: "Image utilities: QR codes with icons, binarization, silhouettes, background removal",
	Long: `imgkit bundles a few standalone image utilities in one binary.

The core is QR code generation with an icon embedded in the centre. The icon
sits inside a background-coloured halo; the highest error-correction level
keeps the symbol readable.

Examples:
  imgkit qrcode https://example.com
  imgkit qrcode https://example.com -i logo.png --icon-size 0.25
  imgkit binarize "scans/*.png" -t 140
  imgkit silhouette logo.png -o logo_black.png
  imgkit removebg photo.jpg -d processed`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	writeMetrics()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/imgkit, /etc/imgkit)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("models-dir", "",
		"directory containing ONNX models (can also be set via "+models.EnvModelsDir+")")
	rootCmd.PersistentFlags().String("metrics-file", "",
		"write Prometheus metrics in text format to this file when the command ends")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("models_dir", rootCmd.PersistentFlags().Lookup("models-dir"))
	_ = viper.BindPFlag("metrics_file", rootCmd.PersistentFlags().Lookup("metrics-file"))
}

// setupRun loads the configuration and installs the structured logger.
func setupRun(cmd *cobra.Command, _ []string) error {
	cfg, err := GetConfigLoader().LoadWithFile(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	globalConfig = cfg

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg))
	return nil
}

// newLogger builds the JSON logger for cfg. Logs go to w so that command
// output on stdout stays machine readable.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var logLevel slog.Level
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func writeMetrics() {
	if globalConfig == nil || globalConfig.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(globalConfig.MetricsFile); err != nil {
		slog.Error("Failed to write metrics", "file", globalConfig.MetricsFile, "error", err)
	}
}

// GetConfig returns the configuration of the running command, or the
// defaults when no command has run yet.
func GetConfig() *config.Config {
	if globalConfig == nil {
		cfg := config.DefaultConfig()
		return &cfg
	}
	return globalConfig
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}
