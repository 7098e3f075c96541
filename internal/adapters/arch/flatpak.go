// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package arch

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlundqv/pacvista/internal/domain"
)

// FlathubRemote is the remote name the adapter lists apps from.
const FlathubRemote = "flathub"

// FlathubSource lists Flathub applications via the flatpak CLI.
type FlathubSource struct {
	runner domain.CommandRunner
}

// NewFlathubSource creates a flatpak-backed source.
func NewFlathubSource(runner domain.CommandRunner) *FlathubSource {
	return &FlathubSource{runner: runner}
}

// Ready reports whether flatpak is installed and the Flathub remote is
// enabled for this user or system.
func (s *FlathubSource) Ready(ctx context.Context) bool {
	if !s.runner.CommandExists("flatpak") {
		return false
	}

	output, err := s.runner.ExecuteWithOutput(ctx, "flatpak", "remotes", "--columns=name")
	if err != nil {
		return false
	}

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == FlathubRemote {
			return true
		}
	}

	return false
}

// Fetch returns every Flathub app, cross-referenced against the
// locally-installed application IDs. Display name and application ID
// differ, so the ID is carried as the install key.
func (s *FlathubSource) Fetch(ctx context.Context) []domain.PackageRecord {
	if !s.Ready(ctx) {
		return nil
	}

	output, err := s.runner.ExecuteWithOutput(ctx, "flatpak", "remote-ls", FlathubRemote, "--app", "--columns=name,application")
	if err != nil {
		return nil
	}

	installed, err := s.Installed(ctx)
	if err != nil {
		installed = map[string]struct{}{}
	}

	var records []domain.PackageRecord

	for _, line := range strings.Split(output, "\n") {
		// Columns are tab-separated; the display name may contain spaces.
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		appID := strings.TrimSpace(parts[1])

		if appID == "" {
			continue
		}

		if name == "" {
			name = appID
		}

		_, isInstalled := installed[appID]

		records = append(records, domain.PackageRecord{
			Name:        name,
			OriginLabel: FlathubRemote,
			SourceKind:  domain.SourceFlatpak,
			Installed:   isInstalled,
			InstallKey:  appID,
		})
	}

	return records
}

// Installed returns the installed application IDs. A missing flatpak
// binary yields an empty set, not an error, since an absent tool means
// nothing is installed through it.
func (s *FlathubSource) Installed(ctx context.Context) (map[string]struct{}, error) {
	if !s.runner.CommandExists("flatpak") {
		return map[string]struct{}{}, nil
	}

	output, err := s.runner.ExecuteWithOutput(ctx, "flatpak", "list", "--app", "--columns=application")
	if err != nil {
		return nil, fmt.Errorf("%w: flatpak list: %w", domain.ErrFetchFailed, err)
	}

	set := make(map[string]struct{})

	for _, line := range strings.Split(output, "\n") {
		appID := strings.TrimSpace(line)
		if appID != "" {
			set[appID] = struct{}{}
		}
	}

	return set, nil
}
