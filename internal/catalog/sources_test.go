// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"context"

	"github.com/mlundqv/pacvista/internal/domain"
)

// Fake sources shared by the reconciler and session tests. They return
// canned data and count calls so tests can assert on fetch behavior.

type fakeRepo struct {
	records      []domain.PackageRecord
	installed    map[string]struct{}
	installedErr error
	fetchCalls   int
}

func (f *fakeRepo) Fetch(_ context.Context) []domain.PackageRecord {
	f.fetchCalls++

	return f.records
}

func (f *fakeRepo) Installed(_ context.Context) (map[string]struct{}, error) {
	if f.installedErr != nil {
		return nil, f.installedErr
	}

	return f.installed, nil
}

type fakeFlatpak struct {
	ready        bool
	records      []domain.PackageRecord
	installed    map[string]struct{}
	installedErr error
}

func (f *fakeFlatpak) Ready(_ context.Context) bool {
	return f.ready
}

func (f *fakeFlatpak) Fetch(_ context.Context) []domain.PackageRecord {
	if !f.ready {
		return nil
	}

	return f.records
}

func (f *fakeFlatpak) Installed(_ context.Context) (map[string]struct{}, error) {
	if f.installedErr != nil {
		return nil, f.installedErr
	}

	return f.installed, nil
}

type fakeAUR struct {
	enabled      bool
	records      []domain.PackageRecord
	installed    map[string]struct{}
	installedErr error
	searchHits   map[string][]domain.PackageRecord
	searchCalls  map[string]int
}

func (f *fakeAUR) Enabled() bool {
	return f.enabled
}

func (f *fakeAUR) Fetch(_ context.Context) []domain.PackageRecord {
	return f.records
}

func (f *fakeAUR) Installed(_ context.Context) (map[string]struct{}, error) {
	if f.installedErr != nil {
		return nil, f.installedErr
	}

	return f.installed, nil
}

func (f *fakeAUR) Search(_ context.Context, term string) []domain.PackageRecord {
	if f.searchCalls == nil {
		f.searchCalls = make(map[string]int)
	}

	f.searchCalls[term]++

	return f.searchHits[term]
}

func names(set ...string) map[string]struct{} {
	result := make(map[string]struct{}, len(set))
	for _, name := range set {
		result[name] = struct{}{}
	}

	return result
}
