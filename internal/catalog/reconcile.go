// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"context"
	"fmt"

	"github.com/mlundqv/pacvista/internal/domain"
)

// Reconciler re-derives installed state after an operation without
// re-fetching the full available-package listings, which are the
// expensive part of a catalog build.
type Reconciler struct {
	repo    domain.RepoSource
	flatpak domain.FlatpakSource
	aur     domain.AURSource
}

// NewReconciler creates a reconciler over the three sources.
func NewReconciler(repo domain.RepoSource, flatpak domain.FlatpakSource, aur domain.AURSource) *Reconciler {
	return &Reconciler{
		repo:    repo,
		flatpak: flatpak,
		aur:     aur,
	}
}

// Reconcile re-queries the cheap "what is installed" sets and patches
// every record's Installed flag by membership test: InstallKey for
// Flatpak, Name otherwise. Records themselves are never added or
// removed. If any re-query fails, the error is returned and the caller
// falls back to a full catalog reload.
func (r *Reconciler) Reconcile(ctx context.Context, c domain.Catalog) (domain.Catalog, error) {
	repoSet, err := r.repo.Installed(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo installed set: %w", err)
	}

	flatpakSet, err := r.flatpak.Installed(ctx)
	if err != nil {
		return nil, fmt.Errorf("flatpak installed set: %w", err)
	}

	aurSet, err := r.aur.Installed(ctx)
	if err != nil {
		return nil, fmt.Errorf("aur installed set: %w", err)
	}

	patched := make(domain.Catalog, len(c))

	for i, rec := range c {
		switch rec.SourceKind {
		case domain.SourcePacman:
			_, rec.Installed = repoSet[rec.Name]
		case domain.SourceFlatpak:
			_, rec.Installed = flatpakSet[rec.Key()]
		case domain.SourceAUR:
			_, rec.Installed = aurSet[rec.Name]
		}

		patched[i] = rec
	}

	return patched, nil
}
