// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
)

// Failure kinds at the source-adapter boundary. Adapters convert both
// into empty results; the distinction exists so callers can log and
// surface them separately.
var (
	// ErrSourceUnavailable indicates the backing tool is missing or the
	// feature is disabled (Flatpak not installed, no AUR helper,
	// Flathub remote off).
	ErrSourceUnavailable = errors.New("package source unavailable")
	// ErrFetchFailed indicates the backing tool ran but exited non-zero
	// or produced unparseable output.
	ErrFetchFailed = errors.New("package listing failed")
)

// Errors surfaced by the catalog engine and the operation runner.
var (
	// ErrOperationInFlight rejects a privileged operation started while
	// another is still running.
	ErrOperationInFlight = errors.New("another package operation is already in progress")
	// ErrUnknownView indicates an unrecognized view name.
	ErrUnknownView = errors.New("unknown view")
	// ErrUnknownPackage indicates the requested package is not in the catalog.
	ErrUnknownPackage = errors.New("package not found in catalog")
	// ErrNoAURHelper indicates no supported AUR helper was found on PATH.
	ErrNoAURHelper = errors.New("no AUR helper found")
	// ErrThresholdRange indicates a fuzzy threshold outside [0.0, 1.0].
	ErrThresholdRange = errors.New("fuzzy threshold must be between 0.0 and 1.0")
	// ErrPageSize indicates a non-positive page size.
	ErrPageSize = errors.New("page size must be positive")
)

// ExitError carries a Unix exit code alongside the error for the CLI
// boundary.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
