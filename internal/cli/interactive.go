// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mlundqv/pacvista/internal/adapters/arch"
	"github.com/mlundqv/pacvista/internal/domain"
)

func getSourceStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))
}

// confirmOperation asks before touching the system. The prompt lists
// every package with its source so AUR builds are never a surprise.
func confirmOperation(verb string, records []domain.PackageRecord) (bool, error) {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("%s  %s", rec.Name, getSourceStyle().Render("["+string(rec.SourceKind)+"]")))
	}

	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %d package(s)?", verb, len(records))).
				Description(strings.Join(lines, "\n")).
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

// confirmUpdate asks before a full system upgrade.
func confirmUpdate() (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Run a full system upgrade?").
				Description("Executes pacman -Syu for the whole system.").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

// renderInfoMarkdown renders package metadata through glamour for
// readable terminal output.
func renderInfoMarkdown(name string, fields []arch.InfoField) (string, error) {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("# %s\n\n", name))

	for _, field := range fields {
		builder.WriteString(fmt.Sprintf("**%s**: %s\n\n", field.Key, field.Value))
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}

	return renderer.Render(builder.String())
}
