// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mlundqv/pacvista/internal/adapters/arch"
	"github.com/mlundqv/pacvista/internal/adapters/platform"
	"github.com/mlundqv/pacvista/internal/domain"
	"github.com/mlundqv/pacvista/internal/pacmanconf"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoPackagesSpecified is returned when a command needs package names
// and got none.
var ErrNoPackagesSpecified = errors.New("no packages specified")

func (app *CLI) createSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Fuzzy-search packages across pacman, Flatpak, and the AUR",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "threshold",
				Usage: "fuzzy match threshold between 0.0 and 1.0",
			},
			&cli.StringFlag{
				Name:  "page",
				Usage: "page index to show (default 0)",
			},
			&cli.StringFlag{
				Name:  "page-size",
				Usage: "results per page",
			},
		},
		Action: app.runSearch,
	}
}

func (app *CLI) runSearch(ctx context.Context, cmd *cli.Command) error {
	term := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if term == "" {
		return domain.NewExitError(ExitUsageError, "search needs a term", nil)
	}

	deps := app.buildDeps(false)

	if err := applySessionFlags(deps, cmd); err != nil {
		return domain.NewExitError(ExitUsageError, err.Error(), nil)
	}

	_ = deps.output.Progress("Loading packages...")
	deps.session.Load(ctx)

	// Searching always lands on the all view and folds in AUR hits.
	if deps.session.SetSearch(term) {
		hits := deps.session.FetchAURHits(ctx, term)
		deps.session.ApplyAURHits(term, hits)
	}

	pageIndex, err := flagInt(cmd, "page", 0)
	if err != nil {
		return domain.NewExitError(ExitUsageError, err.Error(), nil)
	}

	rows, hasMore, counts, err := deps.session.PageAt(domain.ViewAll, term, pageIndex)
	if err != nil {
		return domain.NewExitError(ExitUsageError, err.Error(), err)
	}

	output := app.packageOutput()

	if len(rows) == 0 {
		return output.Info(deps.session.EmptyMessage())
	}

	if err := output.Packages(rows, counts); err != nil {
		return err
	}

	if hasMore && !app.json {
		_ = output.Info(fmt.Sprintf("More results: --page %d", pageIndex+1))
	}

	return nil
}

func (app *CLI) createListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List catalog packages for a view",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "view",
				Usage:   "view to list: installed, available, flatpak, aur, all",
				Value:   string(domain.ViewInstalled),
				Aliases: []string{"t"},
			},
			&cli.StringFlag{
				Name:  "page",
				Usage: "page index to show (default 0)",
			},
			&cli.StringFlag{
				Name:  "page-size",
				Usage: "results per page",
			},
		},
		Action: app.runList,
	}
}

func (app *CLI) runList(ctx context.Context, cmd *cli.Command) error {
	deps := app.buildDeps(false)

	if err := applySessionFlags(deps, cmd); err != nil {
		return domain.NewExitError(ExitUsageError, err.Error(), nil)
	}

	view := domain.View(cmd.String("view"))
	if !view.IsValid() {
		return domain.NewExitError(ExitUsageError,
			fmt.Sprintf("unknown view %q (expected installed, available, flatpak, aur, or all)", cmd.String("view")), nil)
	}

	pageIndex, err := flagInt(cmd, "page", 0)
	if err != nil {
		return domain.NewExitError(ExitUsageError, err.Error(), nil)
	}

	_ = deps.output.Progress("Loading packages...")
	deps.session.Load(ctx)

	rows, hasMore, counts, err := deps.session.PageAt(view, "", pageIndex)
	if err != nil {
		return domain.NewExitError(ExitUsageError, err.Error(), err)
	}

	output := app.packageOutput()

	if len(rows) == 0 {
		_ = deps.session.SetView(view)

		return output.Info(deps.session.EmptyMessage())
	}

	if err := output.Packages(rows, counts); err != nil {
		return err
	}

	if hasMore && !app.json {
		_ = output.Info(fmt.Sprintf("More results: --page %d", pageIndex+1))
	}

	return nil
}

func (app *CLI) createInfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show package metadata from the sync or local database",
		ArgsUsage: "<name>",
		Action:    app.runInfo,
	}
}

func (app *CLI) runInfo(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return domain.NewExitError(ExitUsageError, "info needs a package name", nil)
	}

	name := cmd.Args().Get(0)
	deps := app.buildDeps(false)

	fields, err := deps.inspect.Info(ctx, name)
	if err != nil {
		return domain.NewExitError(ExitNotFoundError, fmt.Sprintf("no package named %q", name), err)
	}

	if app.json {
		payload := make(map[string]string, len(fields))
		for _, field := range fields {
			payload[field.Key] = field.Value
		}

		return deps.output.Success("", payload)
	}

	if app.plain || app.quiet || !term.IsTerminal(int(os.Stdout.Fd())) {
		rows := make([][]string, 0, len(fields))
		for _, field := range fields {
			rows = append(rows, []string{field.Key, field.Value})
		}

		return app.packageOutput().Table([]string{"Field", "Value"}, rows)
	}

	rendered, err := renderInfoMarkdown(name, fields)
	if err != nil {
		// Fall back to the plain table when the terminal renderer
		// cannot initialize.
		rows := make([][]string, 0, len(fields))
		for _, field := range fields {
			rows = append(rows, []string{field.Key, field.Value})
		}

		return app.packageOutput().Table([]string{"Field", "Value"}, rows)
	}

	fmt.Print(rendered)

	return nil
}

func (app *CLI) createInstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install packages from whichever source owns them",
		ArgsUsage: "<name>...",
		Action:    app.runInstall,
	}
}

func (app *CLI) runInstall(ctx context.Context, cmd *cli.Command) error {
	return app.runOperation(ctx, cmd, "Install", func(deps *runtimeDeps, rec domain.PackageRecord) error {
		return deps.ops.Install(ctx, rec)
	})
}

func (app *CLI) createRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove installed packages",
		ArgsUsage: "<name>...",
		Action:    app.runRemove,
	}
}

func (app *CLI) runRemove(ctx context.Context, cmd *cli.Command) error {
	return app.runOperation(ctx, cmd, "Remove", func(deps *runtimeDeps, rec domain.PackageRecord) error {
		return deps.ops.Remove(ctx, rec)
	})
}

// runOperation shares the find/confirm/guard/execute/reconcile flow of
// install and remove.
func (app *CLI) runOperation(ctx context.Context, cmd *cli.Command, verb string, execute func(*runtimeDeps, domain.PackageRecord) error) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return domain.NewExitError(ExitUsageError, ErrNoPackagesSpecified.Error(), ErrNoPackagesSpecified)
	}

	deps := app.buildDeps(false)

	_ = deps.output.Progress("Loading packages...")
	deps.session.Load(ctx)

	records := make([]domain.PackageRecord, 0, len(names))

	for _, name := range names {
		rec, ok := deps.session.Find(name)
		if !ok {
			return domain.NewExitError(ExitNotFoundError, fmt.Sprintf("no package named %q in any source", name), domain.ErrUnknownPackage)
		}

		records = append(records, rec)
	}

	if !app.yes && !app.quiet {
		confirmed, err := confirmOperation(verb, records)
		if err != nil {
			return domain.NewExitError(ExitGeneralError, "confirmation failed", err)
		}

		if !confirmed {
			return deps.output.Info("Aborted.")
		}
	}

	if err := deps.session.BeginOperation(); err != nil {
		return domain.NewExitError(ExitBusyError, err.Error(), err)
	}
	defer deps.session.EndOperation()

	for _, rec := range records {
		_ = deps.output.Progress(fmt.Sprintf("%s %s...", verb, rec.Name))

		if err := execute(deps, rec); err != nil {
			_ = deps.output.Error(err.Error())

			// A partial run can still have changed installed state.
			deps.session.OperationComplete(ctx)

			if errors.Is(err, domain.ErrNoAURHelper) {
				return domain.NewExitError(ExitDependencyError, "no AUR helper found: install yay or paru", err)
			}

			return domain.NewExitError(ExitOperationError, fmt.Sprintf("%s failed for %s", strings.ToLower(verb), rec.Name), err)
		}
	}

	deps.session.OperationComplete(ctx)

	past := "Installed"
	if verb == "Remove" {
		past = "Removed"
	}

	summary := fmt.Sprintf("%s %d package(s)", past, len(records))

	return deps.output.Success(summary, map[string]any{
		"operation": strings.ToLower(verb),
		"packages":  names,
	})
}

func (app *CLI) createUpdateCommand() *cli.Command {
	return &cli.Command{
		Name:   "update",
		Usage:  "Run a full system upgrade (pacman -Syu)",
		Action: app.runUpdate,
	}
}

func (app *CLI) runUpdate(ctx context.Context, _ *cli.Command) error {
	deps := app.buildDeps(false)

	if !app.yes && !app.quiet {
		confirmed, err := confirmUpdate()
		if err != nil {
			return domain.NewExitError(ExitGeneralError, "confirmation failed", err)
		}

		if !confirmed {
			return deps.output.Info("Aborted.")
		}
	}

	if err := deps.session.BeginOperation(); err != nil {
		return domain.NewExitError(ExitBusyError, err.Error(), err)
	}
	defer deps.session.EndOperation()

	if err := deps.ops.UpdateSystem(ctx); err != nil {
		return domain.NewExitError(ExitOperationError, "system update failed", err)
	}

	return deps.output.Success("System updated", map[string]string{"operation": "update"})
}

func (app *CLI) createDepsCommand() *cli.Command {
	return &cli.Command{
		Name:  "deps",
		Usage: "Report explicitly-installed packages with heavy dependency trees",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "threshold",
				Usage: "minimum dependency count to report",
			},
		},
		Action: app.runDeps,
	}
}

func (app *CLI) runDeps(ctx context.Context, cmd *cli.Command) error {
	threshold, err := flagInt(cmd, "threshold", arch.DefaultHeavyThreshold)
	if err != nil {
		return domain.NewExitError(ExitUsageError, err.Error(), nil)
	}

	deps := app.buildDeps(false)
	reporter := arch.NewDepReporter(deps.runner)

	_ = deps.output.Progress("Walking dependency trees...")

	heavy, err := reporter.HeavyPackages(ctx, threshold)
	if err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) {
			return domain.NewExitError(ExitDependencyError, "pactree not found: install pacman-contrib", err)
		}

		return domain.NewExitError(ExitSystemError, "dependency report failed", err)
	}

	if app.json {
		return deps.output.Success("", map[string]any{"threshold": threshold, "packages": heavy})
	}

	if len(heavy) == 0 {
		return deps.output.Info(fmt.Sprintf("No package has %d or more dependencies", threshold))
	}

	rows := make([][]string, 0, len(heavy))
	for _, pkg := range heavy {
		rows = append(rows, []string{pkg.Name, strconv.Itoa(pkg.DepCount)})
	}

	return app.packageOutput().Table([]string{"Package", "Dependencies"}, rows)
}

func (app *CLI) createConfCommand() *cli.Command {
	fileFlag := &cli.StringFlag{
		Name:  "file",
		Usage: "pacman.conf path",
		Value: pacmanconf.DefaultPath,
	}

	return &cli.Command{
		Name:  "conf",
		Usage: "Maintain pacman.conf: IgnorePkg and cosmetic options",
		Commands: []*cli.Command{
			{
				Name:      "ignore",
				Usage:     "List, add to, or remove from IgnorePkg",
				ArgsUsage: "[add|remove <name>]",
				Flags:     []cli.Flag{fileFlag},
				Action:    app.runConfIgnore,
			},
			{
				Name:   "style",
				Usage:  "Enable Color and ILoveCandy",
				Flags:  []cli.Flag{fileFlag},
				Action: app.runConfStyle,
			},
		},
	}
}

func (app *CLI) runConfIgnore(_ context.Context, cmd *cli.Command) error {
	editor := pacmanconf.NewEditor(cmd.String("file"))
	output := app.packageOutput()

	args := cmd.Args().Slice()
	if len(args) == 0 {
		ignored, err := editor.IgnoredPackages()
		if err != nil {
			return domain.NewExitError(ExitConfigError, "cannot read pacman.conf", err)
		}

		if app.json {
			return output.Success("", map[string]any{"ignored": ignored})
		}

		if len(ignored) == 0 {
			return output.Info("IgnorePkg is empty")
		}

		return output.Info(strings.Join(ignored, "\n"))
	}

	if len(args) != 2 {
		return domain.NewExitError(ExitUsageError, "usage: conf ignore [add|remove <name>]", nil)
	}

	verb, name := args[0], args[1]

	var err error

	switch verb {
	case "add":
		err = editor.AddIgnore(name)
	case "remove":
		err = editor.RemoveIgnore(name)
	default:
		return domain.NewExitError(ExitUsageError, fmt.Sprintf("unknown subcommand %q", verb), nil)
	}

	if err != nil {
		return domain.NewExitError(ExitPermissionError, "cannot edit pacman.conf (root required for the system file)", err)
	}

	return output.Success(fmt.Sprintf("IgnorePkg updated: %s %s", verb, name), map[string]string{
		"action":  verb,
		"package": name,
	})
}

func (app *CLI) runConfStyle(_ context.Context, cmd *cli.Command) error {
	editor := pacmanconf.NewEditor(cmd.String("file"))

	if err := editor.EnableStyle(); err != nil {
		return domain.NewExitError(ExitPermissionError, "cannot edit pacman.conf (root required for the system file)", err)
	}

	return app.packageOutput().Success("Enabled Color and ILoveCandy", map[string]bool{"styled": true})
}

func (app *CLI) createHardwareCommand() *cli.Command {
	return &cli.Command{
		Name:   "hardware",
		Usage:  "Show detected hardware (form factor, GPU, CPU, kernel)",
		Action: app.runHardware,
	}
}

func (app *CLI) runHardware(ctx context.Context, _ *cli.Command) error {
	deps := app.buildDeps(false)
	detector := platform.NewHardwareDetector(deps.runner)

	info := detector.Detect(ctx)

	if app.json {
		return deps.output.Success("", info)
	}

	return app.packageOutput().Table(
		[]string{"Field", "Value"},
		[][]string{
			{"Form factor", info.FormFactor},
			{"GPU vendor", info.GPUVendor},
			{"GPU model", info.GPUModel},
			{"CPU model", info.CPUModel},
			{"Kernel", info.Kernel},
			{"Distribution", info.Distribution},
		},
	)
}

func (app *CLI) createTUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive package browser",
		Action: func(ctx context.Context, _ *cli.Command) error { return app.runTUI(ctx) },
	}
}

// applySessionFlags pushes threshold and page-size flags into the
// session, seeded from the settings file.
func applySessionFlags(deps *runtimeDeps, cmd *cli.Command) error {
	if raw := cmd.String("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid --threshold %q", raw)
		}

		if err := deps.session.SetFuzzyThreshold(threshold); err != nil {
			return err
		}
	}

	if raw := cmd.String("page-size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid --page-size %q", raw)
		}

		if err := deps.session.SetPageSize(size); err != nil {
			return err
		}
	}

	return nil
}

// flagInt parses an optional numeric string flag.
func flagInt(cmd *cli.Command, name string, fallback int) (int, error) {
	raw := cmd.String(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid --%s %q", name, raw)
	}

	return value, nil
}
