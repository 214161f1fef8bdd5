// Package integration provides end-to-end tests for the tangle CLI and
// the storage stack underneath it.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// tangleBin is the path to the built tangle binary.
	tangleBin string
	// buildErr captures any build error from TestMain.
	buildErr error
)

// FindProjectRoot finds the project root by walking up to the go.mod.
func FindProjectRoot() (string, error) {
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
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// RunResult captures one CLI invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// TestEnv is an isolated config/data directory pair for one test.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
	DataDir   string
}

// NewTestEnv creates isolated directories for a test.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("tangle binary not built: %v", buildErr)
	}
	base := t.TempDir()
	return &TestEnv{
		t:         t,
		ConfigDir: filepath.Join(base, "config"),
		DataDir:   filepath.Join(base, "data"),
	}
}

// RunTangle invokes the tangle binary against this env's directories.
func (e *TestEnv) RunTangle(args ...string) RunResult {
	e.t.Helper()

	full := append([]string{"--config-dir", e.ConfigDir, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(tangleBin, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("run tangle %v: %v", args, err)
		}
	}
	return result
}

// MustRunTangle runs the command and fails the test on a non-zero exit.
func (e *TestEnv) MustRunTangle(args ...string) RunResult {
	e.t.Helper()
	result := e.RunTangle(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("tangle %v exited %d\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON decodes CLI JSON output into T.
func ParseJSON[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("parse JSON output: %v\noutput: %s", err, raw)
	}
	return v
}
