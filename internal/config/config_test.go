// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlundqv/pacvista/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	settings, err := config.LoadFrom(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), settings)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pacvista", "settings.toml")

	want := config.Settings{
		FuzzyThreshold: 0.6,
		PageSize:       50,
		AUREnabled:     false,
		AURHelper:      "paru",
	}
	require.NoError(t, config.SaveTo(path, want))

	got, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadFrom_NormalizesBadValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	content := "fuzzy_threshold = 7.5\npage_size = -3\naur_enabled = true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.InDelta(t, config.Default().FuzzyThreshold, settings.FuzzyThreshold, 0.0001)
	assert.Equal(t, config.Default().PageSize, settings.PageSize)
	assert.True(t, settings.AUREnabled, "valid fields survive normalization")
}

func TestLoadFrom_MalformedFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	settings, err := config.LoadFrom(path)
	assert.Error(t, err)
	assert.Equal(t, config.Default(), settings)
}

func TestPathIsUnderXDGConfigHome(t *testing.T) {
	assert.Contains(t, config.Path(), filepath.Join("pacvista", "settings.toml"))
}
