// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package arch

import (
	"context"
	"strings"

	"github.com/mlundqv/pacvista/internal/domain"
)

// InfoField is one key/value pair of pacman package metadata.
type InfoField struct {
	Key   string
	Value string
}

// Inspector retrieves package metadata from pacman.
type Inspector struct {
	runner domain.CommandRunner
}

// NewInspector creates a pacman-backed metadata inspector.
func NewInspector(runner domain.CommandRunner) *Inspector {
	return &Inspector{runner: runner}
}

// Info returns the metadata fields for a package, trying the sync
// database first and falling back to the local database for packages
// that are installed but no longer in any repo.
func (i *Inspector) Info(ctx context.Context, name string) ([]InfoField, error) {
	for _, flag := range []string{"-Si", "-Qi"} {
		output, err := i.runner.ExecuteWithOutput(ctx, "pacman", flag, name)
		if err != nil || strings.TrimSpace(output) == "" {
			continue
		}

		return parseInfoFields(output), nil
	}

	return nil, domain.ErrUnknownPackage
}

// parseInfoFields parses pacman -Si/-Qi output: "Key : Value" rows
// with indented continuation lines folded into the previous value.
func parseInfoFields(output string) []InfoField {
	var fields []InfoField

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'

		key, value, found := strings.Cut(line, ":")
		if found && !indented {
			fields = append(fields, InfoField{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			})

			continue
		}

		if len(fields) > 0 {
			last := &fields[len(fields)-1]
			last.Value = strings.TrimSpace(last.Value + " " + strings.TrimSpace(line))
		}
	}

	return fields
}
