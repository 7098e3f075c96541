// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mlundqv/pacvista/internal/domain"
)

// Session is the catalog controller for one application run. It owns
// the catalog, the active view, the search text and the pagination
// cursor. Source fetches and privileged operations run on worker
// goroutines and return plain data; only Session methods mutate state,
// and they serialize through one mutex so no two mutations race.
type Session struct {
	mu sync.Mutex

	repo       domain.RepoSource
	flatpak    domain.FlatpakSource
	aur        domain.AURSource
	reconciler *Reconciler

	catalog   domain.Catalog
	view      domain.View
	search    string
	pageIndex int

	pageSize  int
	threshold float64

	cache *searchCache

	// opInFlight rejects a second privileged operation while one is
	// still running.
	opInFlight atomic.Bool

	flatpakReady bool
	loaded       bool
}

// NewSession creates a session over the three package sources with
// default paging and fuzzy settings.
func NewSession(repo domain.RepoSource, flatpak domain.FlatpakSource, aur domain.AURSource) *Session {
	return &Session{
		repo:       repo,
		flatpak:    flatpak,
		aur:        aur,
		reconciler: NewReconciler(repo, flatpak, aur),
		view:       domain.ViewAll,
		pageSize:   DefaultPageSize,
		threshold:  DefaultFuzzyThreshold,
		cache:      newSearchCache(defaultCacheSize),
	}
}

// SetFuzzyThreshold tunes the minimum similarity for non-substring
// matches. The comparison against it is inclusive.
func (s *Session) SetFuzzyThreshold(value float64) error {
	if value < 0.0 || value > 1.0 {
		return domain.ErrThresholdRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = value

	return nil
}

// SetPageSize tunes how many rows each "load more" materializes.
func (s *Session) SetPageSize(size int) error {
	if size <= 0 {
		return domain.ErrPageSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = size

	return nil
}

// Load rebuilds the catalog wholesale from all sources. Individual
// source unavailability yields zero records from that source and never
// aborts the build. A load started while an older one is still in
// flight simply wins by arriving later: mutation is serialized here and
// only one catalog reference exists.
func (s *Session) Load(ctx context.Context) {
	records := s.repo.Fetch(ctx)

	flatpakReady := s.flatpak.Ready(ctx)
	if flatpakReady {
		records = append(records, s.flatpak.Fetch(ctx)...)
	}

	if s.aur.Enabled() {
		records = append(records, s.aur.Fetch(ctx)...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = records
	s.flatpakReady = flatpakReady
	s.loaded = true
}

// View returns the active view.
func (s *Session) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.view
}

// SetView switches the active tab, resetting the pagination cursor.
func (s *Session) SetView(view domain.View) error {
	if !view.IsValid() {
		return domain.ErrUnknownView
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = view
	s.pageIndex = 0

	return nil
}

// Search returns the active search text.
func (s *Session) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.search
}

// SetSearch updates the search text and resets the pagination cursor.
// A non-empty term forces the active view to "all" so matches from
// every source are visible. The returned flag is true when the caller
// should fetch AUR hits for the term asynchronously and hand them back
// through ApplyAURHits; memoized terms are merged immediately instead,
// without re-invoking the external search.
func (s *Session) SetSearch(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.search = term
	s.pageIndex = 0

	if term == "" {
		return false
	}

	s.view = domain.ViewAll

	if s.aur == nil || !s.aur.Enabled() {
		return false
	}

	if hits, ok := s.cache.get(term); ok {
		// The merge itself re-applies installed status: hits whose
		// name now exists as an installed record are skipped.
		s.catalog = MergeAURHits(s.catalog, hits)

		return false
	}

	return true
}

// FetchAURHits queries the AUR source for a term. It touches no session
// state and is safe to call from a worker goroutine.
func (s *Session) FetchAURHits(ctx context.Context, term string) []domain.PackageRecord {
	return s.aur.Search(ctx, term)
}

// ApplyAURHits memoizes the hits for the term and merges them into the
// catalog. Results for a term the user has already moved past are still
// cached but only merged when the term is still current.
func (s *Session) ApplyAURHits(term string, hits []domain.PackageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.put(term, hits)

	if term == s.search {
		s.catalog = MergeAURHits(s.catalog, hits)
	}
}

// Page materializes the current view: every row from page 0 through the
// cursor, whether more remain, and the catalog summary counts.
func (s *Session) Page() ([]domain.PackageRecord, bool, domain.Counts) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := Filter(s.catalog, s.view, s.search, s.threshold)
	rows, hasMore := PageThrough(ranked, s.pageIndex, s.pageSize)

	return rows, hasMore, s.catalog.Count()
}

// PageAt is the stateless counterpart of Page for callers that manage
// their own view state.
func (s *Session) PageAt(view domain.View, search string, pageIndex int) ([]domain.PackageRecord, bool, domain.Counts, error) {
	if !view.IsValid() {
		return nil, false, domain.Counts{}, domain.ErrUnknownView
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := Filter(s.catalog, view, search, s.threshold)
	rows, hasMore := PageThrough(ranked, pageIndex, s.pageSize)

	return rows, hasMore, s.catalog.Count(), nil
}

// Advance moves the pagination cursor one page forward. It reports
// whether the cursor actually moved; at the end of the results it
// stays put.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := Filter(s.catalog, s.view, s.search, s.threshold)
	if _, hasMore := PageThrough(ranked, s.pageIndex, s.pageSize); !hasMore {
		return false
	}

	s.pageIndex++

	return true
}

// Find returns the first catalog record whose name or install key
// matches, preferring earlier (repo-first) entries.
func (s *Session) Find(name string) (domain.PackageRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.catalog {
		if rec.Name == name || rec.Key() == name {
			return rec, true
		}
	}

	return domain.PackageRecord{}, false
}

// BeginOperation marks a privileged operation as running. It fails with
// ErrOperationInFlight when one already is; concurrent operations are
// rejected rather than queued.
func (s *Session) BeginOperation() error {
	if !s.opInFlight.CompareAndSwap(false, true) {
		return domain.ErrOperationInFlight
	}

	return nil
}

// EndOperation clears the in-flight flag. Callers pair it with
// BeginOperation regardless of the operation's outcome.
func (s *Session) EndOperation() {
	s.opInFlight.Store(false)
}

// OperationInFlight reports whether a privileged operation is running.
func (s *Session) OperationInFlight() bool {
	return s.opInFlight.Load()
}

// OperationComplete patches installed state after an install/remove
// finished, successfully or not: partial failures can change state, so
// truth is always re-queried rather than inferred from the exit code.
// When the cheap re-queries themselves fail, the whole catalog is
// reloaded instead.
func (s *Session) OperationComplete(ctx context.Context) {
	s.mu.Lock()
	patched, err := s.reconciler.Reconcile(ctx, s.catalog)
	if err == nil {
		s.catalog = patched
		s.mu.Unlock()

		return
	}
	s.mu.Unlock()

	s.Load(ctx)
}

// Loaded reports whether a full catalog build has completed.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded
}

// Counts summarises the whole catalog.
func (s *Session) Counts() domain.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalog.Count()
}

// EmptyMessage explains why the current view has no rows, so an empty
// list never renders as a bare blank.
func (s *Session) EmptyMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case !s.loaded:
		return "Loading packages..."
	case s.view == domain.ViewFlatpak && !s.flatpakReady:
		return "Flatpak is not installed or the Flathub remote is not enabled"
	case s.view == domain.ViewAUR && (s.aur == nil || !s.aur.Enabled()):
		return "AUR support is disabled or no AUR helper was found"
	case s.search != "":
		return "No packages match '" + s.search + "'"
	default:
		return "No packages in this view"
	}
}
