// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package arch adapts pacman, flatpak, and AUR helpers to the catalog
// source ports. All adapters degrade to empty results on failure: a
// catalog build must never abort because one backing tool is down.
package arch

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlundqv/pacvista/internal/domain"
)

// PacmanSource lists official repository packages.
type PacmanSource struct {
	runner domain.CommandRunner
}

// NewPacmanSource creates a pacman-backed repo source.
func NewPacmanSource(runner domain.CommandRunner) *PacmanSource {
	return &PacmanSource{runner: runner}
}

// Fetch returns every sync-database package with its installed flag
// already cross-referenced against the local database.
func (s *PacmanSource) Fetch(ctx context.Context) []domain.PackageRecord {
	output, err := s.runner.ExecuteWithOutput(ctx, "pacman", "-Sl")
	if err != nil {
		return nil
	}

	installed, err := s.Installed(ctx)
	if err != nil {
		installed = map[string]struct{}{}
	}

	var records []domain.PackageRecord

	// -Sl lines read "repo name version [installed]".
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		name := fields[1]
		_, isInstalled := installed[name]

		records = append(records, domain.PackageRecord{
			Name:        name,
			OriginLabel: fields[0],
			SourceKind:  domain.SourcePacman,
			Installed:   isInstalled,
		})
	}

	return records
}

// Installed returns the names in the local package database.
func (s *PacmanSource) Installed(ctx context.Context) (map[string]struct{}, error) {
	output, err := s.runner.ExecuteWithOutput(ctx, "pacman", "-Q")
	if err != nil {
		return nil, fmt.Errorf("%w: pacman -Q: %w", domain.ErrFetchFailed, err)
	}

	return firstFieldSet(output), nil
}

// firstFieldSet collects the first whitespace-separated field of each
// non-empty line. Both pacman -Q and -Qm print "name version" lines.
func firstFieldSet(output string) map[string]struct{} {
	set := make(map[string]struct{})

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			set[fields[0]] = struct{}{}
		}
	}

	return set
}
