// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform holds filesystem location helpers shared by the
// config layer and the CLI.
package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// GetDataPath returns the pacvista data directory, honoring the
// PACVISTA_PATH override.
func GetDataPath() string {
	return GetDataPathWithEnv(os.Getenv("PACVISTA_PATH"))
}

// GetDataPathWithEnv returns the data path with a custom environment override for testing.
func GetDataPathWithEnv(dataPath string) string {
	if dataPath != "" {
		return dataPath
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "pacvista")
	}

	return ""
}

// GetXDGConfigHome returns the XDG config directory.
func GetXDGConfigHome() string {
	return GetXDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// GetXDGConfigHomeWithEnv returns the XDG config directory with a custom environment override for testing.
func GetXDGConfigHomeWithEnv(xdgConfigHome string) string {
	if xdgConfigHome != "" {
		return xdgConfigHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}

	return ""
}

// GetXDGDataHome returns the XDG data directory.
func GetXDGDataHome() string {
	return GetXDGDataHomeWithEnv(os.Getenv("XDG_DATA_HOME"))
}

// GetXDGDataHomeWithEnv returns the XDG data directory with a custom environment override for testing.
func GetXDGDataHomeWithEnv(xdgDataHome string) string {
	if xdgDataHome != "" {
		return xdgDataHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}

	return ""
}

// GetXDGStateHome returns the XDG state directory, where the process
// lock file lives.
func GetXDGStateHome() string {
	return GetXDGStateHomeWithEnv(os.Getenv("XDG_STATE_HOME"))
}

// GetXDGStateHomeWithEnv returns the XDG state directory with a custom environment override for testing.
func GetXDGStateHomeWithEnv(xdgStateHome string) string {
	if xdgStateHome != "" {
		return xdgStateHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}

	return ""
}

// ExpandPath expands ~ and the XDG environment variables.
func ExpandPath(path string) string {
	return ExpandPathWithEnv(path, "", "")
}

// ExpandPathWithEnv expands paths with custom XDG environment variables for testing.
func ExpandPathWithEnv(path, xdgConfigHome, xdgDataHome string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	if after, found := strings.CutPrefix(path, "$XDG_CONFIG_HOME"); found {
		configHome := xdgConfigHome
		if configHome == "" {
			configHome = GetXDGConfigHome()
		}

		return configHome + after
	}

	if after, found := strings.CutPrefix(path, "$XDG_DATA_HOME"); found {
		dataHome := xdgDataHome
		if dataHome == "" {
			dataHome = GetXDGDataHome()
		}

		return dataHome + after
	}

	return path
}
