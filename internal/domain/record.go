// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain holds the package catalog model and the ports the
// catalog engine depends on.
package domain

import "strings"

// SourceKind identifies which external tool a record came from.
// It is a closed tag: all downstream logic switches on it.
type SourceKind string

// Package sources supported on Arch/Artix systems.
const (
	SourcePacman  SourceKind = "pacman"
	SourceFlatpak SourceKind = "flatpak"
	SourceAUR     SourceKind = "aur"
)

// PackageRecord is the unit of the catalog: one package as known to one
// source. Installed is the most frequently-changing field and is the
// only one mutated after construction.
type PackageRecord struct {
	Name        string     `json:"name"`
	OriginLabel string     `json:"origin"`
	Installed   bool       `json:"installed"`
	SourceKind  SourceKind `json:"source"`

	// InstallKey is the identifier passed to the underlying tool when
	// it differs from Name. Required for Flatpak (the reverse-DNS
	// application ID); empty for pacman and AUR, where Name suffices.
	InstallKey string `json:"install_key,omitempty"`
}

// Key returns the identifier used for install/remove commands and for
// installed-set membership tests.
func (r PackageRecord) Key() string {
	if r.SourceKind == SourceFlatpak && r.InstallKey != "" {
		return r.InstallKey
	}

	return r.Name
}

// IsValid reports whether the record satisfies the catalog invariants.
func (r PackageRecord) IsValid() bool {
	if strings.TrimSpace(r.Name) == "" {
		return false
	}

	switch r.SourceKind {
	case SourcePacman, SourceAUR:
		return true
	case SourceFlatpak:
		// Flatpak records must carry the application ID.
		return strings.TrimSpace(r.InstallKey) != ""
	default:
		return false
	}
}

// Catalog is the insertion-ordered collection of records from all
// sources for the current session. No cross-source uniqueness is
// enforced: a name may legitimately appear once per source.
type Catalog []PackageRecord

// Names returns the set of display names present under any source.
func (c Catalog) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(c))
	for _, rec := range c {
		names[rec.Name] = struct{}{}
	}

	return names
}

// Counts summarises the catalog per source and installed state.
type Counts struct {
	Total     int `json:"total"`
	Installed int `json:"installed"`
	Pacman    int `json:"pacman"`
	Flatpak   int `json:"flatpak"`
	AUR       int `json:"aur"`
}

// Count tallies the catalog.
func (c Catalog) Count() Counts {
	var counts Counts

	counts.Total = len(c)

	for _, rec := range c {
		if rec.Installed {
			counts.Installed++
		}

		switch rec.SourceKind {
		case SourcePacman:
			counts.Pacman++
		case SourceFlatpak:
			counts.Flatpak++
		case SourceAUR:
			counts.AUR++
		}
	}

	return counts
}
