// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package arch_test

import (
	"testing"

	"github.com/mlundqv/pacvista/internal/adapters/arch"
	"github.com/mlundqv/pacvista/internal/adapters/platform"
	"github.com/mlundqv/pacvista/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepReporter_DepCount(t *testing.T) {
	t.Parallel()

	mock := platform.NewMockCommandRunner()
	mock.SetOutput("pactree -u firefox", "firefox\ngtk3\nlibxt\nmime-types\n")

	count, err := arch.NewDepReporter(mock).DepCount(t.Context(), "firefox")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "the package itself is not a dependency")
}

func TestDepReporter_HeavyPackages(t *testing.T) {
	t.Parallel()

	mock := platform.NewMockCommandRunner()
	mock.SetOutput("pacman -Q pacman-contrib", "pacman-contrib 1.10.4-1")
	mock.SetOutput("pacman -Qe", "firefox 131.0-1\nvim 9.1.0-1\nlibreoffice 24.8-1\n")
	mock.SetOutput("pactree -u firefox", "firefox\na\nb\nc\n")
	mock.SetOutput("pactree -u vim", "vim\na\n")
	mock.SetOutput("pactree -u libreoffice", "libreoffice\na\nb\nc\nd\ne\n")

	heavy, err := arch.NewDepReporter(mock).HeavyPackages(t.Context(), 3)
	require.NoError(t, err)

	require.Len(t, heavy, 2)
	assert.Equal(t, arch.HeavyPackage{Name: "libreoffice", DepCount: 5}, heavy[0])
	assert.Equal(t, arch.HeavyPackage{Name: "firefox", DepCount: 3}, heavy[1])
}

func TestDepReporter_HeavyPackagesWithoutContrib(t *testing.T) {
	t.Parallel()

	mock := platform.NewMockCommandRunner()
	mock.SetError("pacman -Q pacman-contrib", errToolFailed)

	_, err := arch.NewDepReporter(mock).HeavyPackages(t.Context(), 3)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
