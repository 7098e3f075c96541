// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlundqv/pacvista/internal/adapters/arch"
	"github.com/mlundqv/pacvista/internal/adapters/platform"
	"github.com/mlundqv/pacvista/internal/catalog"
	"github.com/mlundqv/pacvista/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	records []domain.PackageRecord
}

func (f *fakeRepo) Fetch(_ context.Context) []domain.PackageRecord {
	return f.records
}

func (f *fakeRepo) Installed(_ context.Context) (map[string]struct{}, error) {
	installed := make(map[string]struct{})
	for _, rec := range f.records {
		if rec.Installed {
			installed[rec.Name] = struct{}{}
		}
	}

	return installed, nil
}

type fakeFlatpak struct{}

func (f *fakeFlatpak) Ready(_ context.Context) bool { return false }

func (f *fakeFlatpak) Fetch(_ context.Context) []domain.PackageRecord { return nil }

func (f *fakeFlatpak) Installed(_ context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

type fakeAUR struct {
	hits []domain.PackageRecord
}

func (f *fakeAUR) Enabled() bool { return true }

func (f *fakeAUR) Fetch(_ context.Context) []domain.PackageRecord { return nil }

func (f *fakeAUR) Installed(_ context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (f *fakeAUR) Search(_ context.Context, _ string) []domain.PackageRecord {
	return f.hits
}

func repoRecords(count int) []domain.PackageRecord {
	records := make([]domain.PackageRecord, 0, count)
	for i := range count {
		records = append(records, domain.PackageRecord{
			Name:        fmt.Sprintf("pkg-%03d", i),
			OriginLabel: "extra",
			Installed:   i%2 == 0,
			SourceKind:  domain.SourcePacman,
		})
	}

	return records
}

func testBrowser(t *testing.T, records []domain.PackageRecord) *browser {
	t.Helper()

	session := catalog.NewSession(&fakeRepo{records: records}, &fakeFlatpak{}, &fakeAUR{})
	ops := arch.NewOperations(platform.NewMockCommandRunner(), "yay")

	b := newBrowser(t.Context(), Deps{Session: session, Ops: ops, Version: "dev"})
	session.Load(t.Context())
	b.Update(catalogLoadedMsg{})

	return b
}

func TestBrowser_StartsOnAllViewLoading(t *testing.T) {
	t.Parallel()

	session := catalog.NewSession(&fakeRepo{}, &fakeFlatpak{}, &fakeAUR{})
	b := newBrowser(t.Context(), Deps{Session: session})

	assert.True(t, b.loading)
	assert.Equal(t, domain.ViewAll, b.views[b.viewIdx])
}

func TestBrowser_LoadedMsgFillsPage(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(10))

	assert.False(t, b.loading)
	assert.Len(t, b.rows, 10)
	assert.Equal(t, 10, b.counts.Total)
	assert.Equal(t, 5, b.counts.Installed)
}

func TestBrowser_NumberKeysSwitchViews(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(10))
	b.cursor = 4

	model, _ := b.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	updated, ok := model.(*browser)
	require.True(t, ok)

	assert.Equal(t, domain.ViewInstalled, updated.views[updated.viewIdx])
	assert.Zero(t, updated.cursor)
	assert.Len(t, updated.rows, 5)
}

func TestBrowser_TabCyclesViews(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(4))
	start := b.viewIdx

	model, _ := b.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	updated := model.(*browser)

	assert.Equal(t, (start+1)%len(updated.views), updated.viewIdx)
}

func TestBrowser_MoveDownLoadsNextPage(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(150))
	require.Len(t, b.rows, catalog.DefaultPageSize)
	require.True(t, b.hasMore)

	b.cursor = len(b.rows) - 1

	model, _ := b.moveDown()
	updated := model.(*browser)

	assert.Len(t, updated.rows, 150)
	assert.Equal(t, catalog.DefaultPageSize, updated.cursor)
	assert.False(t, updated.hasMore)
}

func TestBrowser_SearchCommitLandsOnAllView(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(10))

	model, _ := b.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	b = model.(*browser)
	require.Equal(t, domain.ViewInstalled, b.views[b.viewIdx])

	model, _ = b.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	b = model.(*browser)
	require.True(t, b.searching)

	b.input.SetValue("pkg-003")

	model, cmd := b.handleSearchKey(tea.KeyMsg{Type: tea.KeyEnter})
	b = model.(*browser)

	assert.False(t, b.searching)
	assert.Equal(t, domain.ViewAll, b.views[b.viewIdx])
	assert.NotNil(t, cmd, "committing a search should request AUR hits")
	require.NotEmpty(t, b.rows)
	assert.Equal(t, "pkg-003", b.rows[0].Name)
}

func TestBrowser_EscClearsSearch(t *testing.T) {
	t.Parallel()

	records := []domain.PackageRecord{
		{Name: "firefox", OriginLabel: "extra", SourceKind: domain.SourcePacman},
		{Name: "vim", OriginLabel: "extra", SourceKind: domain.SourcePacman},
		{Name: "zsh", OriginLabel: "extra", SourceKind: domain.SourcePacman},
	}
	b := testBrowser(t, records)
	b.deps.Session.SetSearch("firefox")
	b.refresh()
	require.Len(t, b.rows, 1)

	model, _ := b.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	b = model.(*browser)

	assert.Empty(t, b.deps.Session.Search())
	assert.Len(t, b.rows, 3)
}

func TestBrowser_AURHitsMergeIntoPage(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(3))
	b.deps.Session.SetSearch("pkg")
	b.refresh()

	b.Update(aurHitsMsg{term: "pkg", hits: []domain.PackageRecord{
		{Name: "pkg-aur", OriginLabel: "aur", SourceKind: domain.SourceAUR},
	}})

	names := make([]string, 0, len(b.rows))
	for _, rec := range b.rows {
		names = append(names, rec.Name)
	}

	assert.Contains(t, names, "pkg-aur")
}

func TestBrowser_OperationGuardRejectsSecond(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(3))

	require.NoError(t, b.deps.Session.BeginOperation())
	defer b.deps.Session.EndOperation()

	model, cmd := b.toggleSelected()
	b = model.(*browser)

	assert.Nil(t, cmd)
	assert.False(t, b.busy)
	assert.Contains(t, b.status, "already running")
}

func TestBrowser_FailedOperationStillReconciles(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{records: []domain.PackageRecord{
		{Name: "vim", OriginLabel: "extra", SourceKind: domain.SourcePacman},
	}}
	mock := platform.NewMockCommandRunner()
	mock.SetError("sudo pacman -S --noconfirm vim", errors.New("exit status 1"))

	session := catalog.NewSession(repo, &fakeFlatpak{}, &fakeAUR{})
	b := newBrowser(t.Context(), Deps{Session: session, Ops: arch.NewOperations(mock, "")})
	session.Load(t.Context())
	b.Update(catalogLoadedMsg{})

	// pacman landed the package on disk before exiting non-zero.
	repo.records[0].Installed = true

	rec, ok := b.selected()
	require.True(t, ok)
	require.False(t, rec.Installed)
	require.NoError(t, session.BeginOperation())

	msg := b.runOperation(rec)()
	done, isDone := msg.(operationDoneMsg)
	require.True(t, isDone)
	require.Error(t, done.err)

	patched, found := session.Find("vim")
	require.True(t, found)
	assert.True(t, patched.Installed, "failed operation must still reconcile installed state")
	assert.False(t, session.OperationInFlight())
}

func TestBrowser_UpdateKeyRunsSystemUpgrade(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(3))

	model, cmd := b.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	b = model.(*browser)

	require.NotNil(t, cmd)
	assert.True(t, b.busy)
	assert.True(t, b.deps.Session.OperationInFlight())

	// the upgrade holds the guard, so a package operation is rejected
	model, opCmd := b.toggleSelected()
	b = model.(*browser)

	assert.Nil(t, opCmd)
	assert.Contains(t, b.status, "already running")

	msg := b.runSystemUpdate()()
	done, isDone := msg.(operationDoneMsg)
	require.True(t, isDone)
	require.NoError(t, done.err)
	assert.Equal(t, "Updated", done.verb)

	b.Update(done)

	assert.False(t, b.busy)
	assert.False(t, b.deps.Session.OperationInFlight())
	assert.Contains(t, b.status, "system")
}

func TestBrowser_OperationDoneShowsStatus(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(3))

	b.busy = true
	b.Update(operationDoneMsg{verb: "Installed", name: "pkg-001"})

	assert.False(t, b.busy)
	assert.Contains(t, b.status, "pkg-001")
}

func TestBrowser_OverlayCapturesKeys(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(3))
	b.Update(infoRenderedMsg{content: "metadata"})
	require.True(t, b.overlay)

	model, _ := b.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	b = model.(*browser)

	assert.False(t, b.overlay)
	assert.False(t, b.quitting)
}

func TestBrowser_ViewRendersRows(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(3))
	b.width = 100
	b.height = 30

	view := b.View()

	assert.Contains(t, view, "pkg-000")
	assert.Contains(t, view, "pacvista")
	assert.Contains(t, view, "AUR")
}

func TestBrowser_EmptyViewShowsMessage(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, nil)

	model, _ := b.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	b = model.(*browser)

	assert.Contains(t, b.renderList(), "Flatpak")
}

func TestBrowser_WindowStartFollowsCursor(t *testing.T) {
	t.Parallel()

	b := testBrowser(t, repoRecords(80))

	b.cursor = 0
	assert.Zero(t, b.windowStart(10))

	b.cursor = 25
	assert.Equal(t, 16, b.windowStart(10))
}

func TestRun_RequiresSession(t *testing.T) {
	t.Parallel()

	err := Run(t.Context(), Deps{})

	require.ErrorIs(t, err, ErrNoSession)
}
