// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package arch

import (
	"context"
	"fmt"

	"github.com/mlundqv/pacvista/internal/domain"
)

// Operations runs privileged install/remove/update commands, picking
// the tool that owns the record's source.
type Operations struct {
	runner domain.CommandRunner
	helper string
}

// NewOperations creates an operation runner. The helper is the AUR
// helper binary to build foreign packages with, empty if unavailable.
func NewOperations(runner domain.CommandRunner, helper string) *Operations {
	return &Operations{runner: runner, helper: helper}
}

// Install installs the package the record describes.
func (o *Operations) Install(ctx context.Context, rec domain.PackageRecord) error {
	switch rec.SourceKind {
	case domain.SourceFlatpak:
		// flatpak elevates itself through polkit when needed.
		if err := o.runner.Execute(ctx, "flatpak", "install", "-y", FlathubRemote, rec.Key()); err != nil {
			return fmt.Errorf("flatpak install %s: %w", rec.Key(), err)
		}

		return nil
	case domain.SourceAUR:
		if o.helper == "" {
			return domain.ErrNoAURHelper
		}

		// Helpers must not run as root; they invoke sudo for the
		// pacman steps themselves.
		if err := o.runner.Execute(ctx, o.helper, "-S", "--noconfirm", rec.Name); err != nil {
			return fmt.Errorf("%s -S %s: %w", o.helper, rec.Name, err)
		}

		return nil
	default:
		if err := o.runner.ExecuteSudo(ctx, "pacman", "-S", "--noconfirm", rec.Name); err != nil {
			return fmt.Errorf("pacman -S %s: %w", rec.Name, err)
		}

		return nil
	}
}

// Remove removes the package the record describes.
func (o *Operations) Remove(ctx context.Context, rec domain.PackageRecord) error {
	switch rec.SourceKind {
	case domain.SourceFlatpak:
		if err := o.runner.Execute(ctx, "flatpak", "uninstall", "-y", rec.Key()); err != nil {
			return fmt.Errorf("flatpak uninstall %s: %w", rec.Key(), err)
		}

		return nil
	default:
		// Foreign packages live in the local pacman database too, so
		// removal goes through pacman for both repo and AUR records.
		if err := o.runner.ExecuteSudo(ctx, "pacman", "-R", "--noconfirm", rec.Name); err != nil {
			return fmt.Errorf("pacman -R %s: %w", rec.Name, err)
		}

		return nil
	}
}

// UpdateSystem runs a full system upgrade.
func (o *Operations) UpdateSystem(ctx context.Context) error {
	if err := o.runner.ExecuteSudo(ctx, "pacman", "-Syu", "--noconfirm"); err != nil {
		return fmt.Errorf("pacman -Syu: %w", err)
	}

	return nil
}
