// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"errors"
	"testing"

	"github.com/mlundqv/pacvista/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errQueryFailed = errors.New("query failed")

func TestReconciler_PatchesInstalledFlags(t *testing.T) {
	t.Parallel()

	catalog := domain.Catalog{
		{Name: "vim", OriginLabel: "extra", SourceKind: domain.SourcePacman, Installed: true},
		{Name: "emacs", OriginLabel: "extra", SourceKind: domain.SourcePacman},
		{Name: "GIMP", OriginLabel: "flathub", SourceKind: domain.SourceFlatpak, InstallKey: "org.gimp.GIMP"},
		{Name: "yay-bin", OriginLabel: "aur", SourceKind: domain.SourceAUR, Installed: true},
	}

	reconciler := NewReconciler(
		&fakeRepo{installed: names("emacs")},
		&fakeFlatpak{ready: true, installed: names("org.gimp.GIMP")},
		&fakeAUR{enabled: true, installed: names()},
	)

	patched, err := reconciler.Reconcile(t.Context(), catalog)
	require.NoError(t, err)
	require.Len(t, patched, 4)

	assert.False(t, patched[0].Installed, "vim was removed")
	assert.True(t, patched[1].Installed, "emacs was installed")
	assert.True(t, patched[2].Installed, "flatpak matches on install key, not display name")
	assert.False(t, patched[3].Installed, "aur package was removed")
}

func TestReconciler_StableWhenSetsUnchanged(t *testing.T) {
	t.Parallel()

	catalog := domain.Catalog{
		{Name: "vim", SourceKind: domain.SourcePacman, Installed: true},
		{Name: "emacs", SourceKind: domain.SourcePacman},
		{Name: "GIMP", SourceKind: domain.SourceFlatpak, InstallKey: "org.gimp.GIMP", Installed: true},
		{Name: "paru", SourceKind: domain.SourceAUR, Installed: true},
	}

	reconciler := NewReconciler(
		&fakeRepo{installed: names("vim")},
		&fakeFlatpak{ready: true, installed: names("org.gimp.GIMP")},
		&fakeAUR{enabled: true, installed: names("paru")},
	)

	patched, err := reconciler.Reconcile(t.Context(), catalog)
	require.NoError(t, err)
	assert.Equal(t, catalog, patched, "unchanged installed sets must not flap any flag")
}

func TestReconciler_MatchesFlatpakOnInstallKey(t *testing.T) {
	t.Parallel()

	catalog := domain.Catalog{
		{Name: "GIMP", SourceKind: domain.SourceFlatpak, InstallKey: "org.gimp.GIMP"},
	}

	reconciler := NewReconciler(
		&fakeRepo{installed: names("GIMP")}, // display name present in the wrong set
		&fakeFlatpak{ready: true, installed: names("org.gimp.GIMP")},
		&fakeAUR{},
	)

	patched, err := reconciler.Reconcile(t.Context(), catalog)
	require.NoError(t, err)
	assert.True(t, patched[0].Installed)
}

func TestReconciler_PropagatesQueryFailure(t *testing.T) {
	t.Parallel()

	reconciler := NewReconciler(
		&fakeRepo{installedErr: errQueryFailed},
		&fakeFlatpak{},
		&fakeAUR{},
	)

	_, err := reconciler.Reconcile(t.Context(), domain.Catalog{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errQueryFailed)
}
