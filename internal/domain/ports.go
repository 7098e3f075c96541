// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "context"

// CommandRunner defines the interface for executing system commands.
type CommandRunner interface {
	// Execute runs a command and returns the result.
	Execute(ctx context.Context, name string, args ...string) error

	// ExecuteWithOutput runs a command and returns the output.
	ExecuteWithOutput(ctx context.Context, name string, args ...string) (string, error)

	// ExecuteSudo runs a command with sudo privileges.
	ExecuteSudo(ctx context.Context, name string, args ...string) error

	// CommandExists checks if a command is available on the system.
	CommandExists(name string) bool
}

// RepoSource lists official repository packages via pacman.
type RepoSource interface {
	// Fetch returns every available repo package with its installed
	// flag set. Any failure degrades to an empty slice; a catalog build
	// must never abort because one source is down.
	Fetch(ctx context.Context) []PackageRecord

	// Installed returns the set of locally-installed package names.
	// Unlike Fetch, an execution failure is reported so reconciliation
	// can fall back to a full reload.
	Installed(ctx context.Context) (map[string]struct{}, error)
}

// FlatpakSource lists Flathub applications via flatpak.
type FlatpakSource interface {
	// Ready reports whether flatpak is installed and the Flathub
	// remote is enabled. Fetch returns nothing when not ready.
	Ready(ctx context.Context) bool

	// Fetch returns every Flathub app with its installed flag set,
	// degrading to empty on any failure.
	Fetch(ctx context.Context) []PackageRecord

	// Installed returns the set of installed application IDs. A
	// missing flatpak binary yields an empty set, not an error.
	Installed(ctx context.Context) (map[string]struct{}, error)
}

// AURSource lists and searches AUR packages via an AUR helper.
type AURSource interface {
	// Enabled reports whether AUR support is both configured on and
	// backed by a helper found on PATH.
	Enabled() bool

	// Fetch returns the installed foreign (AUR) packages as records,
	// degrading to empty on any failure.
	Fetch(ctx context.Context) []PackageRecord

	// Installed returns the set of installed foreign package names.
	Installed(ctx context.Context) (map[string]struct{}, error)

	// Search queries the AUR for a term and returns uninstalled
	// candidate records, degrading to empty on any failure.
	Search(ctx context.Context, term string) []PackageRecord
}

// OperationRunner executes privileged install/remove/update commands.
type OperationRunner interface {
	// Install installs the package the record describes.
	Install(ctx context.Context, rec PackageRecord) error

	// Remove removes the package the record describes.
	Remove(ctx context.Context, rec PackageRecord) error

	// UpdateSystem runs a full system upgrade.
	UpdateSystem(ctx context.Context) error
}

// OutputPort defines the interface for presenting command results.
// Adapters implement it for the different output formats.
type OutputPort interface {
	// Success outputs a success message with optional structured data
	Success(message string, data any) error

	// Error outputs an error message
	Error(message string) error

	// Info outputs an informational message
	Info(message string) error

	// Progress outputs progress information for long-running operations
	Progress(message string) error

	// Table outputs tabular data
	Table(headers []string, rows [][]string) error

	// IsQuiet returns true if output should be suppressed
	IsQuiet() bool
}
