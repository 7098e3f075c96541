// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config persists user settings under the XDG config home.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mlundqv/pacvista/internal/catalog"
	"github.com/mlundqv/pacvista/internal/platform"
	"github.com/pelletier/go-toml/v2"
)

// Settings holds the persisted knobs of the catalog session.
type Settings struct {
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	PageSize       int     `toml:"page_size"`
	AUREnabled     bool    `toml:"aur_enabled"`
	AURHelper      string  `toml:"aur_helper"`
}

// Default returns the settings used when no file exists yet.
func Default() Settings {
	return Settings{
		FuzzyThreshold: catalog.DefaultFuzzyThreshold,
		PageSize:       catalog.DefaultPageSize,
		AUREnabled:     true,
		AURHelper:      "",
	}
}

// Path returns the settings file location.
func Path() string {
	return filepath.Join(platform.GetXDGConfigHome(), "pacvista", "settings.toml")
}

// Load reads the settings file, returning defaults when it does not
// exist. Out-of-range values are normalized rather than rejected so a
// hand-edited file cannot brick the session.
func Load() (Settings, error) {
	return LoadFrom(Path())
}

// LoadFrom reads settings from an explicit path.
func LoadFrom(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}

		return settings, fmt.Errorf("read settings: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}

	return normalize(settings), nil
}

// Save writes the settings file, creating the directory if needed.
func Save(settings Settings) error {
	return SaveTo(Path(), settings)
}

// SaveTo writes settings to an explicit path.
func SaveTo(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := toml.Marshal(normalize(settings))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

func normalize(settings Settings) Settings {
	if settings.FuzzyThreshold < 0.0 || settings.FuzzyThreshold > 1.0 {
		settings.FuzzyThreshold = catalog.DefaultFuzzyThreshold
	}

	if settings.PageSize < 1 {
		settings.PageSize = catalog.DefaultPageSize
	}

	return settings
}
