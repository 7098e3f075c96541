// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import "github.com/mlundqv/pacvista/internal/domain"

// DefaultPageSize is the number of rows materialized per "load more".
const DefaultPageSize = 100

// PageSlice returns only page pageIndex of the ranked results, for
// callers that append rows incrementally. hasMore reports whether any
// results remain beyond that page.
func PageSlice(ranked []domain.PackageRecord, pageIndex, pageSize int) ([]domain.PackageRecord, bool) {
	start := pageIndex * pageSize
	if start >= len(ranked) {
		return nil, false
	}

	end := (pageIndex + 1) * pageSize
	if end > len(ranked) {
		end = len(ranked)
	}

	return ranked[start:end], (pageIndex+1)*pageSize < len(ranked)
}

// PageThrough returns every row from page 0 through pageIndex, for
// callers that render from scratch. Page 0 always clears prior rendered
// state, so the cumulative slice is what the view shows.
func PageThrough(ranked []domain.PackageRecord, pageIndex, pageSize int) ([]domain.PackageRecord, bool) {
	end := (pageIndex + 1) * pageSize
	if end > len(ranked) {
		end = len(ranked)
	}

	return ranked[:end], (pageIndex+1)*pageSize < len(ranked)
}
