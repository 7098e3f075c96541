// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides shared command execution functionality.
package platform

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner implements the CommandRunner port against the real system.
type CommandRunner struct {
	verbose bool
	dryRun  bool
	tuiMode bool // When true, suppress direct terminal output for TUI compatibility
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(verbose, dryRun bool) *CommandRunner {
	return &CommandRunner{
		verbose: verbose,
		dryRun:  dryRun,
		tuiMode: false,
	}
}

// NewTUICommandRunner creates a command runner that captures all child
// output so pacman and flatpak cannot scribble over the TUI.
func NewTUICommandRunner(verbose, dryRun bool) *CommandRunner {
	return &CommandRunner{
		verbose: verbose,
		dryRun:  dryRun,
		tuiMode: true,
	}
}

// Execute runs a command and returns the result.
func (r *CommandRunner) Execute(ctx context.Context, name string, args ...string) error {
	if r.verbose && !r.tuiMode {
		fmt.Printf("Executing: %s %s\n", name, strings.Join(args, " "))
	}

	if r.dryRun {
		if !r.tuiMode {
			fmt.Printf("DRY RUN: %s %s\n", name, strings.Join(args, " "))
		}

		return nil
	}

	cmd := exec.CommandContext(ctx, name, args...)

	if r.tuiMode {
		return r.executeTUIMode(cmd)
	}

	return r.executeCLIMode(cmd)
}

// ExecuteWithOutput runs a command and returns its stdout.
func (r *CommandRunner) ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error) {
	if r.verbose && !r.tuiMode {
		fmt.Printf("Executing (with output): %s %s\n", name, strings.Join(args, " "))
	}

	if r.dryRun {
		if !r.tuiMode {
			fmt.Printf("DRY RUN (with output): %s %s\n", name, strings.Join(args, " "))
		}

		return "", nil
	}

	cmd := exec.CommandContext(ctx, name, args...)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("command failed: %w", err)
	}

	return string(output), nil
}

// ExecuteSudo runs a command with sudo privileges.
func (r *CommandRunner) ExecuteSudo(ctx context.Context, name string, args ...string) error {
	if r.verbose && !r.tuiMode {
		fmt.Printf("Executing with sudo: %s %s\n", name, strings.Join(args, " "))
	}

	if r.dryRun {
		if !r.tuiMode {
			fmt.Printf("DRY RUN (sudo): %s %s\n", name, strings.Join(args, " "))
		}

		return nil
	}

	allArgs := append([]string{name}, args...)
	// #nosec G204 - This is intentional command execution with validated input
	cmd := exec.CommandContext(ctx, "sudo", allArgs...)

	if r.tuiMode {
		return r.executeTUIMode(cmd)
	}

	return r.executeCLIMode(cmd)
}

// CommandExists checks if a command is available on the system.
func (r *CommandRunner) CommandExists(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}

// executeTUIMode runs the command with all output captured. On failure the
// trailing stderr is folded into the error so the TUI can surface it.
func (r *CommandRunner) executeTUIMode(cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}

	_, _ = io.Copy(io.Discard, stdout)
	stderrBytes, _ := io.ReadAll(stderr)

	if err := cmd.Wait(); err != nil {
		stderrOutput := strings.TrimSpace(string(stderrBytes))
		if stderrOutput != "" {
			return fmt.Errorf("command failed: %w (stderr: %s)", err, stderrOutput)
		}

		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}

// executeCLIMode runs the command attached to the terminal.
func (r *CommandRunner) executeCLIMode(cmd *exec.Cmd) error {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// MockCommandRunner implements the CommandRunner port for testing.
type MockCommandRunner struct {
	outputs  map[string]string // full command line -> canned stdout
	errors   map[string]error  // full command line -> injected failure
	missing  map[string]struct{}
	Executed []string
}

// NewMockCommandRunner creates a new mock command runner for testing.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		outputs: make(map[string]string),
		errors:  make(map[string]error),
		missing: make(map[string]struct{}),
	}
}

// SetOutput sets the canned stdout for a full command line.
func (r *MockCommandRunner) SetOutput(command, output string) {
	r.outputs[command] = output
}

// SetError makes a full command line fail with the given error.
func (r *MockCommandRunner) SetError(command string, err error) {
	r.errors[command] = err
}

// SetMissing marks a binary as absent for CommandExists.
func (r *MockCommandRunner) SetMissing(name string) {
	r.missing[name] = struct{}{}
}

// Execute records the command and returns any injected failure.
func (r *MockCommandRunner) Execute(_ context.Context, name string, args ...string) error {
	fullCommand := joinCommand(name, args)
	r.Executed = append(r.Executed, fullCommand)

	return r.errors[fullCommand]
}

// ExecuteWithOutput records the command and returns canned output.
func (r *MockCommandRunner) ExecuteWithOutput(_ context.Context, name string, args ...string) (string, error) {
	fullCommand := joinCommand(name, args)
	r.Executed = append(r.Executed, fullCommand)

	if err, exists := r.errors[fullCommand]; exists {
		return "", err
	}

	return r.outputs[fullCommand], nil
}

// ExecuteSudo records the command with a sudo prefix.
func (r *MockCommandRunner) ExecuteSudo(_ context.Context, name string, args ...string) error {
	fullCommand := "sudo " + joinCommand(name, args)
	r.Executed = append(r.Executed, fullCommand)

	return r.errors[fullCommand]
}

// CommandExists reports true unless the binary was marked missing.
func (r *MockCommandRunner) CommandExists(name string) bool {
	_, gone := r.missing[name]

	return !gone
}

func joinCommand(name string, args []string) string {
	if len(args) == 0 {
		return name
	}

	return name + " " + strings.Join(args, " ")
}
