package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Segmentation model file names, as published with rembg.
const (
	U2Net         = "u2net.onnx"
	U2NetP        = "u2netp.onnx"
	U2NetHumanSeg = "u2net_human_seg.onnx"
	Silueta       = "silueta.onnx"
)

// DefaultSegmentationModel is the model used when none is configured.
const DefaultSegmentationModel = U2Net

// TypeSegmentation is the models/ subdirectory holding segmentation models.
const TypeSegmentation = "segmentation"

// Default models directory.
const DefaultModelsDir = "models"

// Environment variable for models directory override.
const EnvModelsDir = "IMGKIT_MODELS_DIR"

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("could not find project root (go.mod not found)")
}

// ModelInfo contains metadata about a model.
type ModelInfo struct {
	Name        string
	Type        string
	Description string
	Filename    string
}

// GetModelsDir returns the models directory path from various sources.
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable, 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}

	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}

	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}

	return DefaultModelsDir
}

// ResolveModelPath resolves a model filename to its full path. The organized
// layout (models/<type>/<file>) wins when it exists; otherwise the flat
// layout (models/<file>) is returned.
func ResolveModelPath(modelsDir, modelType, filename string) string {
	baseDir := GetModelsDir(modelsDir)

	if modelType != "" {
		organizedPath := filepath.Join(baseDir, modelType, filename)
		if _, err := os.Stat(organizedPath); err == nil {
			return organizedPath
		}
	}

	return filepath.Join(baseDir, filename)
}

// GetSegmentationModelPath returns the path of a segmentation model. name may
// be a bare file name, a model name from ListAvailableModels, or a path; paths
// are returned unchanged. An empty name selects DefaultSegmentationModel.
func GetSegmentationModelPath(modelsDir, name string) string {
	if name == "" {
		name = DefaultSegmentationModel
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.Contains(name, "/") {
		return name
	}
	for _, m := range ListAvailableModels() {
		if m.Name == name {
			name = m.Filename
			break
		}
	}
	if filepath.Ext(name) == "" {
		name += ".onnx"
	}
	return ResolveModelPath(modelsDir, TypeSegmentation, name)
}

// ValidateModelExists checks if a model file exists at the given path.
func ValidateModelExists(modelPath string) error {
	fi, err := os.Stat(modelPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	if err != nil {
		return fmt.Errorf("cannot access model %s: %w", modelPath, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("model path is a directory: %s", modelPath)
	}
	return nil
}

// ListAvailableModels returns information about the known segmentation models.
func ListAvailableModels() []ModelInfo {
	return []ModelInfo{
		{
			Name:        "u2net",
			Type:        TypeSegmentation,
			Description: "U2-Net general purpose salient object segmentation",
			Filename:    U2Net,
		},
		{
			Name:        "u2netp",
			Type:        TypeSegmentation,
			Description: "Lightweight U2-Net",
			Filename:    U2NetP,
		},
		{
			Name:        "u2net_human_seg",
			Type:        TypeSegmentation,
			Description: "U2-Net trained for human segmentation",
			Filename:    U2NetHumanSeg,
		},
		{
			Name:        "silueta",
			Type:        TypeSegmentation,
			Description: "Reduced-size U2-Net",
			Filename:    Silueta,
		},
	}
}
