// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// CLI TEST HARNESS
// =============================================================================

// CLITestHarness builds the aclgraph binary once and executes it with
// various arguments, capturing stdout, stderr, and exit codes for
// assertions.
//
// Usage:
//
//	harness := NewCLITestHarness("")
//	defer harness.Cleanup()
//
//	result, _ := harness.Run("check", "-f", rules, "admin.docs.read")
//	if err := result.AssertExitCode(0); err != nil {
//	    t.Error(err)
//	}
//
// The harness is safe for concurrent use after Build() succeeded.
type CLITestHarness struct {
	// BinaryPath is the path to the compiled CLI binary
	BinaryPath string

	// WorkDir is the working directory for test execution
	WorkDir string

	// Timeout is the default timeout for command execution
	Timeout time.Duration

	built bool
	mu    sync.Mutex
}

// CLIResult holds the result of executing a CLI command.
type CLIResult struct {
	// Stdout is the standard output
	Stdout string

	// Stderr is the standard error
	Stderr string

	// ExitCode is the process exit code
	ExitCode int

	// Command is the full command that was run (for debugging)
	Command string

	// TimedOut indicates if the command was killed due to timeout
	TimedOut bool
}

// NewCLITestHarness creates a new test harness. An empty workDir uses a
// fresh temp dir that Cleanup removes.
func NewCLITestHarness(workDir string) *CLITestHarness {
	if workDir == "" {
		workDir, _ = os.MkdirTemp("", "aclgraph-cli-test-*")
	}
	return &CLITestHarness{
		WorkDir: workDir,
		Timeout: 30 * time.Second,
	}
}

// Build compiles the CLI binary for testing. It is called automatically
// on first Run() if not called explicitly.
func (h *CLITestHarness) Build() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.built {
		return nil
	}

	sourceDir, err := findSourceDir()
	if err != nil {
		return fmt.Errorf("failed to find source directory: %w", err)
	}

	h.BinaryPath = filepath.Join(h.WorkDir, "aclgraph-test")

	cmd := exec.Command("go", "build", "-o", h.BinaryPath, "./cmd/aclgraph")
	cmd.Dir = sourceDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to build CLI: %w\nOutput: %s", err, string(output))
	}

	h.built = true
	return nil
}

// Run executes the CLI with the given arguments.
//
// The returned error covers execution setup only; a non-zero exit from
// the command itself lands in CLIResult.ExitCode.
func (h *CLITestHarness) Run(args ...string) (*CLIResult, error) {
	if err := h.Build(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.BinaryPath, args...)
	cmd.Dir = h.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Command:  fmt.Sprintf("%s %s", h.BinaryPath, strings.Join(args, " ")),
		TimedOut: ctx.Err() == context.DeadlineExceeded,
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return result, err
		}
	}
	return result, nil
}

// Cleanup removes temporary files created by the harness.
func (h *CLITestHarness) Cleanup() {
	if h.WorkDir != "" && strings.Contains(h.WorkDir, "aclgraph-cli-test") {
		os.RemoveAll(h.WorkDir)
	}
}

// =============================================================================
// ASSERTION HELPERS
// =============================================================================

// AssertExitCode checks the exit code matches expected.
func (r *CLIResult) AssertExitCode(expected int) error {
	if r.ExitCode != expected {
		return fmt.Errorf("exit code: got %d, want %d\ncommand: %s\nstdout: %s\nstderr: %s",
			r.ExitCode, expected, r.Command, r.Stdout, r.Stderr)
	}
	return nil
}

// AssertStdoutContains checks stdout contains the substring.
func (r *CLIResult) AssertStdoutContains(substr string) error {
	if !strings.Contains(r.Stdout, substr) {
		return fmt.Errorf("stdout does not contain %q\nstdout: %s", substr, r.Stdout)
	}
	return nil
}

// AssertStderrContains checks stderr contains the substring.
func (r *CLIResult) AssertStderrContains(substr string) error {
	if !strings.Contains(r.Stderr, substr) {
		return fmt.Errorf("stderr does not contain %q\nstderr: %s", substr, r.Stderr)
	}
	return nil
}

// findSourceDir finds the aclgraph module root.
func findSourceDir() (string, error) {
	if _, err := os.Stat("cmd/aclgraph/main.go"); err == nil {
		return ".", nil
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		if _, err := os.Stat(filepath.Join(dir, "cmd/aclgraph/main.go")); err == nil {
			return dir, nil
		}
		dir = filepath.Dir(dir)
	}
	return "", fmt.Errorf("could not find aclgraph source directory")
}
