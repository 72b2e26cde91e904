package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "imgkit"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "IMGKIT"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader on the global viper instance, which is where
// the root command binds its flags.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWithViper creates a loader on an isolated viper instance.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load reads the configuration from the standard search paths, the
// environment and defaults, and validates it.
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithFile("")
}

// LoadWithFile loads configuration from configFile, or from the search paths
// when configFile is empty, and validates it.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	config, err := l.LoadWithFileWithoutValidation(configFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadWithFileWithoutValidation is LoadWithFile without the final Validate.
func (l *Loader) LoadWithFileWithoutValidation(configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing file in the search paths is fine; defaults and env apply.
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// GetResolvedConfig returns the current resolved configuration for debugging.
func (l *Loader) GetResolvedConfig() map[string]any {
	return l.v.AllSettings()
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	for _, p := range GetConfigSearchPaths() {
		l.v.AddConfigPath(p)
	}
}

// setupEnvironmentVariables configures environment variable handling.
// IMGKIT_QRCODE_SIZE maps to qrcode.size.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("models_dir", defaults.ModelsDir)
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)
	l.v.SetDefault("metrics_file", defaults.MetricsFile)

	l.v.SetDefault("qrcode.size", defaults.QRCode.Size)
	l.v.SetDefault("qrcode.fill_color", defaults.QRCode.FillColor)
	l.v.SetDefault("qrcode.back_color", defaults.QRCode.BackColor)
	l.v.SetDefault("qrcode.icon_size", defaults.QRCode.IconSize)
	l.v.SetDefault("qrcode.halo_padding", defaults.QRCode.HaloPadding)
	l.v.SetDefault("qrcode.output_dir", defaults.QRCode.OutputDir)
	l.v.SetDefault("qrcode.verify", defaults.QRCode.Verify)

	l.v.SetDefault("binarize.threshold", defaults.Binarize.Threshold)
	l.v.SetDefault("binarize.output_dir", defaults.Binarize.OutputDir)
	l.v.SetDefault("silhouette.output_dir", defaults.Silhouette.OutputDir)

	l.v.SetDefault("removebg.model", defaults.RemoveBG.Model)
	l.v.SetDefault("removebg.output_dir", defaults.RemoveBG.OutputDir)
	l.v.SetDefault("removebg.num_threads", defaults.RemoveBG.NumThreads)
	l.v.SetDefault("removebg.gpu.enabled", defaults.RemoveBG.GPU.UseGPU)
	l.v.SetDefault("removebg.gpu.device", defaults.RemoveBG.GPU.DeviceID)
	l.v.SetDefault("removebg.gpu.mem_limit", defaults.RemoveBG.GPU.GPUMemLimit)
	l.v.SetDefault("removebg.gpu.arena_extend_strategy", defaults.RemoveBG.GPU.ArenaExtendStrategy)
	l.v.SetDefault("removebg.gpu.cudnn_conv_algo_search", defaults.RemoveBG.GPU.CUDNNConvAlgoSearch)
	l.v.SetDefault("removebg.gpu.copy_in_default_stream", defaults.RemoveBG.GPU.DoCopyInDefaultStream)

	l.v.SetDefault("output.format", defaults.Output.Format)
}

// GenerateDefaultConfigFile writes the default configuration to filename
// (imgkit.yaml when empty). An existing file is not overwritten.
func GenerateDefaultConfigFile(filename string) error {
	if filename == "" {
		filename = ConfigFileName + ".yaml"
	}
	loader := NewLoaderWithViper(viper.New())
	loader.setDefaults()
	return loader.v.SafeWriteConfigAs(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, ConfigFileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigFileName))
	}

	paths = append(paths, "/etc/"+ConfigFileName)

	return paths
}

// PrintConfigInfo writes information about configuration loading to w.
func (l *Loader) PrintConfigInfo(w io.Writer) {
	used := l.GetConfigFileUsed()
	if used == "" {
		used = "(none, using defaults)"
	}
	_, _ = fmt.Fprintf(w, "Configuration file used: %s\n", used)
	_, _ = fmt.Fprintf(w, "Configuration search paths: %v\n", GetConfigSearchPaths())
	_, _ = fmt.Fprintf(w, "Environment prefix: %s\n", EnvPrefix)
}
