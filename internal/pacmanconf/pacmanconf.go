// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package pacmanconf edits pacman.conf: the IgnorePkg list and the
// cosmetic Color/ILoveCandy options. Edits are line-based and preserve
// everything they do not touch, comments included.
package pacmanconf

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// DefaultPath is the system pacman configuration file.
const DefaultPath = "/etc/pacman.conf"

// Editor reads and rewrites one pacman.conf file.
type Editor struct {
	path string
}

// NewEditor creates an editor for the given path, defaulting to the
// system file when empty.
func NewEditor(path string) *Editor {
	if path == "" {
		path = DefaultPath
	}

	return &Editor{path: path}
}

// IgnoredPackages returns the packages named on active IgnorePkg lines.
func (e *Editor) IgnoredPackages() ([]string, error) {
	lines, err := e.readLines()
	if err != nil {
		return nil, err
	}

	var ignored []string

	for _, line := range lines {
		if pkgs, ok := ignoreLine(line); ok {
			ignored = append(ignored, pkgs...)
		}
	}

	return ignored, nil
}

// IsIgnored reports whether a package is on an active IgnorePkg line.
func (e *Editor) IsIgnored(name string) (bool, error) {
	ignored, err := e.IgnoredPackages()
	if err != nil {
		return false, err
	}

	return slices.Contains(ignored, name), nil
}

// AddIgnore puts a package on the IgnorePkg list, appending to an
// existing active line or inserting a new one into [options].
func (e *Editor) AddIgnore(name string) error {
	lines, err := e.readLines()
	if err != nil {
		return err
	}

	var result []string

	found := false

	for _, line := range lines {
		pkgs, ok := ignoreLine(line)
		if !ok || found {
			result = append(result, line)

			continue
		}

		found = true

		if !slices.Contains(pkgs, name) {
			line = strings.TrimRight(line, " \t") + " " + name
		}

		result = append(result, line)
	}

	if !found {
		result = insertIntoOptions(result, "IgnorePkg = "+name)
	}

	return e.writeLines(result)
}

// RemoveIgnore takes a package off every active IgnorePkg line. A line
// left empty is dropped entirely.
func (e *Editor) RemoveIgnore(name string) error {
	lines, err := e.readLines()
	if err != nil {
		return err
	}

	var result []string

	for _, line := range lines {
		pkgs, ok := ignoreLine(line)
		if !ok {
			result = append(result, line)

			continue
		}

		var kept []string

		for _, pkg := range pkgs {
			if pkg != name {
				kept = append(kept, pkg)
			}
		}

		if len(kept) > 0 {
			result = append(result, "IgnorePkg = "+strings.Join(kept, " "))
		}
	}

	return e.writeLines(result)
}

// EnableStyle uncomments Color and adds ILoveCandy under the misc
// options header when it is not already present.
func (e *Editor) EnableStyle() error {
	lines, err := e.readLines()
	if err != nil {
		return err
	}

	hasCandy := false

	for _, line := range lines {
		if strings.Contains(line, "ILoveCandy") {
			hasCandy = true

			break
		}
	}

	var result []string

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if stripped == "#Color" {
			result = append(result, "Color")

			continue
		}

		if stripped == "# Misc options" && !hasCandy {
			result = append(result, line, "ILoveCandy")
			hasCandy = true

			continue
		}

		result = append(result, line)
	}

	return e.writeLines(result)
}

func (e *Editor) readLines() ([]string, error) {
	content, err := os.ReadFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.path, err)
	}

	lines := strings.Split(string(content), "\n")

	// A trailing newline yields one empty trailing element; drop it so
	// writeLines can re-add exactly one.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines, nil
}

func (e *Editor) writeLines(lines []string) error {
	perm := os.FileMode(0o644)

	if info, err := os.Stat(e.path); err == nil {
		perm = info.Mode().Perm()
	}

	content := strings.Join(lines, "\n") + "\n"

	if err := os.WriteFile(e.path, []byte(content), perm); err != nil {
		return fmt.Errorf("write %s: %w", e.path, err)
	}

	return nil
}

// ignoreLine parses an active "IgnorePkg = a b c" line.
func ignoreLine(line string) ([]string, bool) {
	stripped := strings.TrimSpace(line)
	if strings.HasPrefix(stripped, "#") || !strings.HasPrefix(stripped, "IgnorePkg") {
		return nil, false
	}

	_, value, found := strings.Cut(stripped, "=")
	if !found {
		return nil, false
	}

	return strings.Fields(value), true
}

// insertIntoOptions places a line at the end of the [options] section,
// or appends it to the file when no such section exists.
func insertIntoOptions(lines []string, newLine string) []string {
	inOptions := false

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		if stripped == "[options]" {
			inOptions = true

			continue
		}

		if inOptions && strings.HasPrefix(stripped, "[") {
			result := make([]string, 0, len(lines)+1)
			result = append(result, lines[:i]...)
			result = append(result, newLine)
			result = append(result, lines[i:]...)

			return result
		}
	}

	return append(lines, newLine)
}
