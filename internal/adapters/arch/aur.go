// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package arch

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlundqv/pacvista/internal/domain"
)

// knownHelpers are probed in preference order when no helper is
// configured explicitly.
var knownHelpers = []string{"yay", "paru", "trizen", "pikaur"}

// HelperSource lists and searches AUR packages through an AUR helper.
// Installed foreign packages come straight from pacman, so listing
// works even when search is unavailable.
type HelperSource struct {
	runner  domain.CommandRunner
	helper  string
	enabled bool
}

// NewHelperSource creates an AUR source. An empty preferred helper
// means probe the well-known ones; enabled is the user setting.
func NewHelperSource(runner domain.CommandRunner, preferred string, enabled bool) *HelperSource {
	source := &HelperSource{runner: runner, enabled: enabled}

	if preferred != "" {
		if runner.CommandExists(preferred) {
			source.helper = preferred
		}

		return source
	}

	for _, helper := range knownHelpers {
		if runner.CommandExists(helper) {
			source.helper = helper

			break
		}
	}

	return source
}

// Enabled reports whether AUR support is configured on and a helper
// was found on PATH.
func (s *HelperSource) Enabled() bool {
	return s.enabled && s.helper != ""
}

// Helper returns the resolved helper binary name, empty if none.
func (s *HelperSource) Helper() string {
	return s.helper
}

// Fetch returns the installed foreign packages. pacman tracks them
// regardless of which helper built them.
func (s *HelperSource) Fetch(ctx context.Context) []domain.PackageRecord {
	if !s.Enabled() {
		return nil
	}

	installed, err := s.Installed(ctx)
	if err != nil {
		return nil
	}

	records := make([]domain.PackageRecord, 0, len(installed))
	for name := range installed {
		records = append(records, domain.PackageRecord{
			Name:        name,
			OriginLabel: "aur",
			SourceKind:  domain.SourceAUR,
			Installed:   true,
		})
	}

	return records
}

// Installed returns the set of installed foreign package names via
// pacman -Qm.
func (s *HelperSource) Installed(ctx context.Context) (map[string]struct{}, error) {
	output, err := s.runner.ExecuteWithOutput(ctx, "pacman", "-Qm")
	if err != nil {
		return nil, fmt.Errorf("%w: pacman -Qm: %w", domain.ErrFetchFailed, err)
	}

	return firstFieldSet(output), nil
}

// Search queries the AUR through the helper and returns uninstalled
// candidate records. Any failure degrades to no hits.
func (s *HelperSource) Search(ctx context.Context, term string) []domain.PackageRecord {
	if !s.Enabled() || strings.TrimSpace(term) == "" {
		return nil
	}

	output, err := s.runner.ExecuteWithOutput(ctx, s.helper, "-Ss", term)
	if err != nil {
		return nil
	}

	var records []domain.PackageRecord

	// Helper -Ss output alternates "aur/name version (+votes)" header
	// lines with indented description lines.
	for _, line := range strings.Split(output, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		name, found := strings.CutPrefix(fields[0], "aur/")
		if !found || name == "" {
			continue
		}

		records = append(records, domain.PackageRecord{
			Name:        name,
			OriginLabel: "aur",
			SourceKind:  domain.SourceAUR,
			Installed:   false,
		})
	}

	return records
}
