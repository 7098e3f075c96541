// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for pacvista.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mlundqv/pacvista/internal/cli"
	"github.com/mlundqv/pacvista/internal/domain"
	"github.com/mlundqv/pacvista/internal/platform"
)

func main() {
	os.Exit(run())
}

func run() int {
	// One instance at a time: concurrent pacman invocations would fight
	// over the package databases anyway.
	lockDir := filepath.Join(platform.GetXDGStateHome(), "pacvista")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create state dir: %v\n", err)

		return cli.ExitSystemError
	}

	lock := flock.New(filepath.Join(lockDir, "pacvista.lock"))

	locked, err := lock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to acquire process lock: %v\n", err)

		return cli.ExitSystemError
	}

	if !locked {
		fmt.Fprintf(os.Stderr, "Another pacvista instance is already running\n")

		return cli.ExitBusyError
	}

	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to release process lock: %v\n", unlockErr)
		}
	}()

	app := cli.NewCLI()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Message)

			return exitErr.Code
		}

		fmt.Fprintf(os.Stderr, "Unexpected error: %v\n", err)

		return cli.ExitGeneralError
	}

	return cli.ExitSuccess
}
