// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import "github.com/mlundqv/pacvista/internal/domain"

// MergeAURHits folds fresh AUR search hits into the catalog.
//
// Stale uninstalled AUR records from a prior search term are dropped
// first, so old search noise never accumulates. A hit is then appended
// only when its name is absent under every source, which keeps a name
// that matches both an installed AUR record and a fresh hit down to a
// single row with Installed preserved.
func MergeAURHits(c domain.Catalog, hits []domain.PackageRecord) domain.Catalog {
	merged := make(domain.Catalog, 0, len(c)+len(hits))

	for _, rec := range c {
		if rec.SourceKind == domain.SourceAUR && !rec.Installed {
			continue
		}

		merged = append(merged, rec)
	}

	present := merged.Names()

	for _, hit := range hits {
		if _, exists := present[hit.Name]; exists {
			continue
		}

		hit.SourceKind = domain.SourceAUR
		merged = append(merged, hit)
		present[hit.Name] = struct{}{}
	}

	return merged
}
