// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines the visual styling for the package browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds every lipgloss style the browser renders with, built
// once at startup so views never allocate styles per frame.
type Styles struct {
	// Color palette
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	// Component styles
	Header      lipgloss.Style
	Footer      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	RowSelected lipgloss.Style
	Row         lipgloss.Style
	Installed   lipgloss.Style
	Source      lipgloss.Style
	Overlay     lipgloss.Style

	// Text styles
	MutedText   lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
}

// New creates the default Tokyo Night styling.
func New() *Styles {
	primary := lipgloss.Color("#7aa2f7")    // Blue
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	muted := lipgloss.Color("#565f89")      // Gray

	background := lipgloss.Color("#1a1b26")
	foreground := lipgloss.Color("#c0caf5")

	return &Styles{
		Primary: primary,
		Success: success,
		Warning: warning,
		Error:   errorColor,
		Muted:   muted,

		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),

		TabActive: lipgloss.NewStyle().
			Background(primary).
			Foreground(background).
			Bold(true).
			Padding(0, 1),

		TabInactive: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),

		RowSelected: lipgloss.NewStyle().
			Background(primary).
			Foreground(background),

		Row: lipgloss.NewStyle().
			Foreground(foreground),

		Installed: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),

		Source: lipgloss.NewStyle().
			Foreground(muted),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),

		MutedText: lipgloss.NewStyle().
			Foreground(muted),

		SuccessText: lipgloss.NewStyle().
			Foreground(success),

		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),

		WarningText: lipgloss.NewStyle().
			Foreground(warning),
	}
}
