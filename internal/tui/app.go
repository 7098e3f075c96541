// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui provides the interactive package browser.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlundqv/pacvista/internal/adapters/arch"
	"github.com/mlundqv/pacvista/internal/catalog"
)

// ErrNoSession is returned when the browser is launched without a
// catalog session.
var ErrNoSession = errors.New("browser requires a catalog session")

// Deps carries everything the browser needs from the command layer.
type Deps struct {
	Session   *catalog.Session
	Ops       *arch.Operations
	Inspector *arch.Inspector
	Version   string
}

// Run starts the interactive browser and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	if deps.Session == nil {
		return ErrNoSession
	}

	program := tea.NewProgram(
		newBrowser(ctx, deps),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("package browser failed: %w", err)
	}

	return nil
}
