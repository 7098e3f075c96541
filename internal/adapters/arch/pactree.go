// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package arch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mlundqv/pacvista/internal/domain"
)

// DefaultHeavyThreshold is the dependency count above which a package
// is considered heavy.
const DefaultHeavyThreshold = 50

// HeavyPackage pairs an explicitly-installed package with its unique
// dependency count.
type HeavyPackage struct {
	Name     string
	DepCount int
}

// DepReporter measures dependency weight via pactree.
type DepReporter struct {
	runner domain.CommandRunner
}

// NewDepReporter creates a pactree-backed dependency reporter.
func NewDepReporter(runner domain.CommandRunner) *DepReporter {
	return &DepReporter{runner: runner}
}

// Available reports whether pacman-contrib (which ships pactree) is
// installed.
func (r *DepReporter) Available(ctx context.Context) bool {
	_, err := r.runner.ExecuteWithOutput(ctx, "pacman", "-Q", "pacman-contrib")

	return err == nil
}

// DepCount returns the number of unique dependencies of a package,
// not counting the package itself.
func (r *DepReporter) DepCount(ctx context.Context, name string) (int, error) {
	output, err := r.runner.ExecuteWithOutput(ctx, "pactree", "-u", name)
	if err != nil {
		return 0, fmt.Errorf("pactree %s: %w", name, err)
	}

	count := 0

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}

	if count > 0 {
		count--
	}

	return count, nil
}

// HeavyPackages returns the explicitly-installed packages whose unique
// dependency count meets the threshold, heaviest first.
func (r *DepReporter) HeavyPackages(ctx context.Context, threshold int) ([]HeavyPackage, error) {
	if !r.Available(ctx) {
		return nil, fmt.Errorf("%w: pacman-contrib is not installed", domain.ErrSourceUnavailable)
	}

	output, err := r.runner.ExecuteWithOutput(ctx, "pacman", "-Qe")
	if err != nil {
		return nil, fmt.Errorf("pacman -Qe: %w", err)
	}

	var heavy []HeavyPackage

	for name := range firstFieldSet(output) {
		count, err := r.DepCount(ctx, name)
		if err != nil {
			continue
		}

		if count >= threshold {
			heavy = append(heavy, HeavyPackage{Name: name, DepCount: count})
		}
	}

	sort.Slice(heavy, func(i, j int) bool {
		if heavy[i].DepCount != heavy[j].DepCount {
			return heavy[i].DepCount > heavy[j].DepCount
		}

		return heavy[i].Name < heavy[j].Name
	})

	return heavy, nil
}
