package support

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnvBinary names the environment variable holding the imgkit binary path.
const EnvBinary = "IMGKIT_BIN"

// TestContext holds the state for integration tests.
type TestContext struct {
	// Command execution state
	LastCommand   string
	LastOutput    string
	LastStdout    string
	LastStderr    string
	LastError     error
	LastExitCode  int
	LastStartTime time.Time
	LastDuration  time.Duration

	// Test environment
	WorkingDir string
	EnvVars    []string
	Binary     string
}

// NewTestContext creates a new test context with its own scratch working
// directory. Commands run there with HOME pointing at it, so no user
// configuration leaks into a scenario.
func NewTestContext() (*TestContext, error) {
	workingDir, err := os.MkdirTemp("", "imgkit-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	binary := os.Getenv(EnvBinary)
	if binary == "" {
		binary = "imgkit"
	}

	ctx := &TestContext{
		WorkingDir: workingDir,
		Binary:     binary,
	}
	ctx.AddEnvVar("HOME", workingDir)
	ctx.AddEnvVar("XDG_CONFIG_HOME", filepath.Join(workingDir, ".config"))
	return ctx, nil
}

// Cleanup removes the scenario working directory.
func (testCtx *TestContext) Cleanup() error {
	if err := os.RemoveAll(testCtx.WorkingDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.WorkingDir, err)
	}
	return nil
}

// AddEnvVar adds an environment variable for command execution.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars = append(testCtx.EnvVars, fmt.Sprintf("%s=%s", name, value))
}

// path resolves name relative to the scenario working directory.
func (testCtx *TestContext) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(testCtx.WorkingDir, name)
}
