package onnx

import "testing"

func TestDefaultGPUConfig(t *testing.T) {
	config := DefaultGPUConfig()

	if config.UseGPU {
		t.Error("Expected UseGPU to be false by default")
	}
	if config.DeviceID != 0 {
		t.Errorf("Expected DeviceID to be 0, got %d", config.DeviceID)
	}
	if config.ArenaExtendStrategy != "kNextPowerOfTwo" {
		t.Errorf("Expected ArenaExtendStrategy 'kNextPowerOfTwo', got %s", config.ArenaExtendStrategy)
	}
	if !config.DoCopyInDefaultStream {
		t.Error("Expected DoCopyInDefaultStream to be true by default")
	}
	if err := ValidateGPUConfig(config); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateGPUConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  GPUConfig
		wantErr bool
	}{
		{"cpu ignores bad values", GPUConfig{DeviceID: -3, ArenaExtendStrategy: "bogus"}, false},
		{"valid gpu", GPUConfig{UseGPU: true, ArenaExtendStrategy: "kSameAsRequested", CUDNNConvAlgoSearch: "HEURISTIC"}, false},
		{"negative device", GPUConfig{UseGPU: true, DeviceID: -1}, true},
		{"bad arena strategy", GPUConfig{UseGPU: true, ArenaExtendStrategy: "always"}, true},
		{"bad algo search", GPUConfig{UseGPU: true, CUDNNConvAlgoSearch: "FAST"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGPUConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGPUConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCUDASettings(t *testing.T) {
	s := cudaSettings(GPUConfig{UseGPU: true, DeviceID: 2, GPUMemLimit: 1024})
	if s["device_id"] != "2" {
		t.Errorf("device_id = %q", s["device_id"])
	}
	if s["gpu_mem_limit"] != "1024" {
		t.Errorf("gpu_mem_limit = %q", s["gpu_mem_limit"])
	}
	if s["do_copy_in_default_stream"] != "0" {
		t.Errorf("do_copy_in_default_stream = %q", s["do_copy_in_default_stream"])
	}
	if _, ok := s["arena_extend_strategy"]; ok {
		t.Error("empty arena strategy must not be set")
	}

	s = cudaSettings(DefaultGPUConfig())
	if s["do_copy_in_default_stream"] != "1" || s["cudnn_conv_algo_search"] != "DEFAULT" {
		t.Errorf("unexpected defaults: %v", s)
	}
	if _, ok := s["gpu_mem_limit"]; ok {
		t.Error("unlimited memory must not set gpu_mem_limit")
	}
}

func TestConfigureSessionForGPU_CPUIsNoop(t *testing.T) {
	if err := ConfigureSessionForGPU(nil, DefaultGPUConfig()); err != nil {
		t.Errorf("CPU config should not touch session options: %v", err)
	}
}
