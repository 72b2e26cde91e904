// Package batch runs an image operation over a set of files, one at a time.
//
// A failing file is logged and recorded; the remaining files are still
// processed. The run as a whole fails only when no file succeeded.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/imgkit/internal/metrics"
	"github.com/MeKo-Tech/imgkit/internal/utils"
)

// ErrNothingProcessed is returned when a run ends without a single success.
var ErrNothingProcessed = errors.New("no files processed")

// Processor transforms one decoded image.
type Processor interface {
	Name() string
	Process(ctx context.Context, img image.Image) (image.Image, error)
}

// ProcessBatch discovers the files named by inputs and runs proc over them in
// order. The returned Result is non-nil whenever discovery succeeded.
func ProcessBatch(ctx context.Context, inputs []string, proc Processor, config *Config) (*Result, error) {
	files, err := DiscoverFiles(inputs, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover image files: %w", err)
	}

	result := &Result{Operation: proc.Name()}
	if len(files) == 0 {
		slog.Warn("No files matched", "inputs", inputs)
		return result, ErrNothingProcessed
	}

	if config.OutputFile != "" && len(files) > 1 {
		slog.Warn("Output file is ignored when processing multiple files", "output", config.OutputFile, "files", len(files))
	}
	if err := utils.EnsureDir(config.OutputDir); err != nil {
		return result, err
	}

	start := time.Now()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		out := OutputPath(path, config, len(files) == 1)
		fileStart := time.Now()
		err := processSingleImage(ctx, proc, path, out)
		fr := FileResult{Input: path, Output: out, Err: err, Duration: time.Since(fileStart)}
		metrics.ObserveFile(proc.Name(), fr.Duration, err)

		if err != nil {
			fr.Output = ""
			fr.Error = err.Error()
			slog.Error("Processing failed", "operation", proc.Name(), "file", path, "error", err)
		} else {
			slog.Info("Processed", "operation", proc.Name(), "file", path, "output", out, "duration", fr.Duration)
		}
		result.Files = append(result.Files, fr)
	}
	result.Duration = time.Since(start)

	if result.Succeeded() == 0 {
		return result, ErrNothingProcessed
	}
	return result, nil
}

// processSingleImage loads, transforms and saves one file.
func processSingleImage(ctx context.Context, proc Processor, path, out string) error {
	img, _, err := utils.LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	res, err := proc.Process(ctx, img)
	if err != nil {
		return fmt.Errorf("%s failed for %s: %w", proc.Name(), path, err)
	}

	if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
		return err
	}
	if err := utils.SaveImage(res, out); err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}
	return nil
}

// OutputPath derives where the result for input is written. An explicit
// OutputFile wins for a single input; otherwise the name is
// <stem><Suffix><ext> inside OutputDir, or next to the input.
func OutputPath(input string, config *Config, single bool) string {
	if single && config.OutputFile != "" {
		return config.OutputFile
	}

	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if config.Extension != "" {
		ext = config.Extension
	}

	dir := config.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+config.Suffix+ext)
}
