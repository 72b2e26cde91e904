package onnx

import (
	"fmt"
	"log/slog"
	"strconv"

	onnxrt "github.com/yalue/onnxruntime_go"
)

// GPUConfig holds configuration for CUDA acceleration.
type GPUConfig struct {
	UseGPU                bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	DeviceID              int    `mapstructure:"device" yaml:"device" json:"device"`
	GPUMemLimit           uint64 `mapstructure:"mem_limit" yaml:"mem_limit" json:"mem_limit"` // bytes, 0 = unlimited
	ArenaExtendStrategy   string `mapstructure:"arena_extend_strategy" yaml:"arena_extend_strategy" json:"arena_extend_strategy"`
	CUDNNConvAlgoSearch   string `mapstructure:"cudnn_conv_algo_search" yaml:"cudnn_conv_algo_search" json:"cudnn_conv_algo_search"`
	DoCopyInDefaultStream bool   `mapstructure:"copy_in_default_stream" yaml:"copy_in_default_stream" json:"copy_in_default_stream"`
}

// DefaultGPUConfig returns a CPU-only configuration with CUDA defaults
// filled in for when the GPU is switched on.
func DefaultGPUConfig() GPUConfig {
	return GPUConfig{
		ArenaExtendStrategy:   "kNextPowerOfTwo",
		CUDNNConvAlgoSearch:   "DEFAULT",
		DoCopyInDefaultStream: true,
	}
}

var (
	validArenaStrategies = map[string]bool{"kNextPowerOfTwo": true, "kSameAsRequested": true}
	validAlgoSearch      = map[string]bool{"EXHAUSTIVE": true, "HEURISTIC": true, "DEFAULT": true}
)

// ValidateGPUConfig checks if the GPU configuration is valid.
func ValidateGPUConfig(config GPUConfig) error {
	if !config.UseGPU {
		return nil
	}
	if config.DeviceID < 0 {
		return fmt.Errorf("device ID must be non-negative, got %d", config.DeviceID)
	}
	if config.ArenaExtendStrategy != "" && !validArenaStrategies[config.ArenaExtendStrategy] {
		return fmt.Errorf("invalid arena extend strategy: %s (must be 'kNextPowerOfTwo' or 'kSameAsRequested')",
			config.ArenaExtendStrategy)
	}
	if config.CUDNNConvAlgoSearch != "" && !validAlgoSearch[config.CUDNNConvAlgoSearch] {
		return fmt.Errorf("invalid CUDNN conv algo search: %s (must be 'EXHAUSTIVE', 'HEURISTIC', or 'DEFAULT')",
			config.CUDNNConvAlgoSearch)
	}
	return nil
}

// cudaSettings translates a GPUConfig into CUDA provider option keys.
func cudaSettings(cfg GPUConfig) map[string]string {
	s := map[string]string{
		"device_id":                 strconv.Itoa(cfg.DeviceID),
		"do_copy_in_default_stream": "0",
	}
	if cfg.DoCopyInDefaultStream {
		s["do_copy_in_default_stream"] = "1"
	}
	if cfg.GPUMemLimit > 0 {
		s["gpu_mem_limit"] = strconv.FormatUint(cfg.GPUMemLimit, 10)
	}
	if cfg.ArenaExtendStrategy != "" {
		s["arena_extend_strategy"] = cfg.ArenaExtendStrategy
	}
	if cfg.CUDNNConvAlgoSearch != "" {
		s["cudnn_conv_algo_search"] = cfg.CUDNNConvAlgoSearch
	}
	return s
}

// ConfigureSessionForGPU appends the CUDA execution provider to the session
// options when cfg.UseGPU is set. CPU remains the fallback provider.
func ConfigureSessionForGPU(sessionOptions *onnxrt.SessionOptions, cfg GPUConfig) error {
	if !cfg.UseGPU {
		return nil
	}

	cudaOpts, err := onnxrt.NewCUDAProviderOptions()
	if err != nil {
		return fmt.Errorf("failed to create CUDA provider options (GPU may not be available): %w", err)
	}
	defer func() {
		if destroyErr := cudaOpts.Destroy(); destroyErr != nil {
			slog.Warn("Failed to destroy CUDA provider options", "error", destroyErr)
		}
	}()

	if err := cudaOpts.Update(cudaSettings(cfg)); err != nil {
		return fmt.Errorf("failed to update CUDA provider options: %w", err)
	}
	if err := sessionOptions.AppendExecutionProviderCUDA(cudaOpts); err != nil {
		return fmt.Errorf("failed to append CUDA execution provider: %w", err)
	}
	return nil
}
