package onnx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	onnxrt "github.com/yalue/onnxruntime_go"
)

// EnvLibraryPath overrides the ONNX Runtime shared library location.
const EnvLibraryPath = "IMGKIT_ONNXRUNTIME_LIB"

var initMu sync.Mutex

// libraryName returns the ONNX Runtime shared library file name for goos.
func libraryName(goos string) (string, error) {
	switch goos {
	case "linux":
		return "libonnxruntime.so", nil
	case "darwin":
		return "libonnxruntime.dylib", nil
	case "windows":
		return "onnxruntime.dll", nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// candidateLibraryPaths lists where the runtime library is looked for, in order:
// the environment override, system locations, then onnxruntime/ under the
// project root.
func candidateLibraryPaths(useGPU bool) []string {
	var paths []string
	if env := os.Getenv(EnvLibraryPath); env != "" {
		paths = append(paths, env)
	}

	if useGPU {
		paths = append(paths, "/opt/onnxruntime/gpu/lib/libonnxruntime.so")
	}
	paths = append(paths,
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/libonnxruntime.so",
		"/opt/onnxruntime/cpu/lib/libonnxruntime.so",
	)

	libName, err := libraryName(runtime.GOOS)
	if err != nil {
		return paths
	}
	if root, err := findProjectRoot(); err == nil {
		if useGPU {
			paths = append(paths, filepath.Join(root, "onnxruntime", "gpu", "lib", libName))
		}
		paths = append(paths, filepath.Join(root, "onnxruntime", "lib", libName))
	}
	return paths
}

// FindLibrary returns the first existing runtime library path.
func FindLibrary(useGPU bool) (string, error) {
	candidates := candidateLibraryPaths(useGPU)
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("ONNX Runtime library not found (searched %v); set %s", candidates, EnvLibraryPath)
}

// InitRuntime locates the shared library and initializes the ONNX Runtime
// environment. Calling it again after a successful initialization is a no-op.
func InitRuntime(useGPU bool) error {
	initMu.Lock()
	defer initMu.Unlock()

	if onnxrt.IsInitialized() {
		return nil
	}
	lib, err := FindLibrary(useGPU)
	if err != nil {
		return err
	}
	onnxrt.SetSharedLibraryPath(lib)
	if err := onnxrt.InitializeEnvironment(); err != nil {
		return fmt.Errorf("init onnx: %w", err)
	}
	slog.Debug("ONNX Runtime initialized", "library", lib, "version", onnxrt.GetVersion())
	return nil
}

// CheckRuntime initializes the runtime and reports the library in use to w.
func CheckRuntime(w io.Writer, useGPU bool) error {
	lib, err := FindLibrary(useGPU)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "ONNX Runtime library: %s\n", lib)
	if err := InitRuntime(useGPU); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "ONNX Runtime version: %s\n", onnxrt.GetVersion())
	return nil
}

// findProjectRoot walks up from the working directory to the nearest go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("could not find project root")
		}
		dir = parent
	}
}
