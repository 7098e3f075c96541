// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlundqv/pacvista/internal/adapters/arch"
	cliAdapter "github.com/mlundqv/pacvista/internal/adapters/cli"
	"github.com/mlundqv/pacvista/internal/adapters/platform"
	"github.com/mlundqv/pacvista/internal/catalog"
	"github.com/mlundqv/pacvista/internal/config"
	"github.com/mlundqv/pacvista/internal/domain"
	paths "github.com/mlundqv/pacvista/internal/platform"
	"github.com/mlundqv/pacvista/internal/tui"
	"github.com/urfave/cli/v3"
)

// Exit codes follow standard Unix conventions for better scripting support.
// Range 0-125 are safe to use (126+ have special meaning in shells).
const (
	// Standard Unix exit codes.
	ExitSuccess         = 0 // Operation completed successfully
	ExitGeneralError    = 1 // Generic failure (catch-all)
	ExitUsageError      = 2 // Invalid command line usage
	ExitConfigError     = 3 // Configuration file error
	ExitPermissionError = 4 // Permission denied
	ExitNotFoundError   = 5 // Requested resource not found

	// System errors.
	ExitDependencyError = 10 // Missing dependency (no helper, no pactree)
	ExitSystemError     = 12 // System call failed
	ExitInterruptError  = 14 // User interrupted (Ctrl+C)

	// Application-specific errors.
	ExitOperationError = 20 // Package install/remove/update failed
	ExitBusyError      = 21 // Another operation already in progress

	// CLI flags.
	HelpFlag = "--help"
)

// CLI wires the catalog engine and the arch adapters behind an
// urfave/cli command tree.
type CLI struct {
	app     *cli.Command
	verbose bool
	json    bool
	quiet   bool
	plain   bool
	dryRun  bool
	yes     bool
}

// NewCLI creates the pacvista command tree.
func NewCLI() *CLI {
	app := &CLI{}

	app.app = &cli.Command{
		Name:    "pacvista",
		Usage:   "Browse and manage pacman, Flatpak, and AUR packages in one view",
		Version: app.getVersion(),
		Suggest: true,
		Description: `Unified package catalog for Arch and Artix systems.

ESSENTIAL COMMANDS:
  search <term>        Fuzzy-search all sources, AUR included
  list --view installed  List packages per view
  install <name>       Install from whichever source owns the package

QUICK START:
  pacvista                    # Interactive browser
  pacvista search firefox     # Ranked results across sources
  pacvista info firefox       # Package metadata
  pacvista update             # Full system upgrade`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "help",
				Usage:   "show help information",
				Aliases: []string{"h"},
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show executed commands on stderr",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Usage:       "suppress non-essential output",
				Aliases:     []string{"q"},
				Destination: &app.quiet,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output plain text without formatting for scripts",
				Destination: &app.plain,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print privileged commands instead of executing them",
				Destination: &app.dryRun,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "automatically answer yes to all prompts",
				Destination: &app.yes,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return app.validateFlags(ctx, cmd)
		},
		Action:          app.defaultAction,
		Commands:        app.createCommands(),
		CommandNotFound: app.commandNotFound,
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

func (app *CLI) createCommands() []*cli.Command {
	return []*cli.Command{
		app.createSearchCommand(),
		app.createListCommand(),
		app.createInfoCommand(),
		app.createInstallCommand(),
		app.createRemoveCommand(),
		app.createUpdateCommand(),
		app.createDepsCommand(),
		app.createConfCommand(),
		app.createHardwareCommand(),
		app.createTUICommand(),
	}
}

// validateFlags rejects conflicting output modes before any command runs.
func (app *CLI) validateFlags(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, domain.NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	return ctx, nil
}

// defaultAction runs when no command is provided: the interactive
// browser, unless arguments or help flags slipped through.
func (app *CLI) defaultAction(ctx context.Context, _ *cli.Command) error {
	args := os.Args[1:]
	for _, arg := range args {
		if arg == "-h" || arg == HelpFlag {
			app.showConciseHelp()

			return nil
		}
	}

	if len(args) > 0 {
		app.showConciseHelp()
		fmt.Fprintf(os.Stderr, "\nFor complete help, use: pacvista --help\n")

		return nil
	}

	return app.runTUI(ctx)
}

// showConciseHelp displays user-friendly help when no command is provided.
func (app *CLI) showConciseHelp() {
	version := app.getVersion()

	fmt.Printf("pacvista %s - pacman, Flatpak, and AUR packages in one view\n\n", version)

	fmt.Printf("ESSENTIAL COMMANDS\n")
	fmt.Printf("  search <term>     Fuzzy-search every source, AUR included\n")
	fmt.Printf("  list              List packages per view (installed, available, ...)\n")
	fmt.Printf("  install <name>    Install from whichever source owns the package\n")
	fmt.Printf("  update            Full system upgrade\n\n")

	fmt.Printf("GET STARTED\n")
	fmt.Printf("  pacvista                  # interactive browser\n")
	fmt.Printf("  pacvista search firefox\n\n")

	fmt.Printf("Complete help:  pacvista --help\n")
}

// commandNotFound handles unknown commands.
func (app *CLI) commandNotFound(_ context.Context, _ *cli.Command, command string) {
	fmt.Fprintf(os.Stderr, "'%s' is not a command.\n", command)
	fmt.Fprintf(os.Stderr, "\nRun 'pacvista --help' to see available commands.\n")
	os.Exit(ExitUsageError)
}

// getVersion returns the installed version, "dev" for source builds.
func (app *CLI) getVersion() string {
	return app.getVersionWithPath("")
}

// getVersionWithPath returns the version with a custom path for testing.
func (app *CLI) getVersionWithPath(customPath string) string {
	dataPath := customPath
	if dataPath == "" {
		dataPath = paths.GetDataPath()
	}

	versionFile := filepath.Join(dataPath, "version")
	if content, err := os.ReadFile(versionFile); err == nil { //nolint:gosec
		return strings.TrimSpace(string(content))
	}

	return "dev"
}

// runtimeDeps is everything a command needs wired together.
type runtimeDeps struct {
	runner   domain.CommandRunner
	session  *catalog.Session
	aur      *arch.HelperSource
	ops      *arch.Operations
	inspect  *arch.Inspector
	settings config.Settings
	output   domain.OutputPort
}

// buildDeps loads settings and assembles the session over the real
// adapters. A broken settings file degrades to defaults with a notice.
func (app *CLI) buildDeps(tuiMode bool) *runtimeDeps {
	output := cliAdapter.OutputFromFlags(app.json, app.quiet)

	settings, err := config.Load()
	if err != nil && !app.quiet {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}

	var runner domain.CommandRunner
	if tuiMode {
		runner = platform.NewTUICommandRunner(app.verbose, app.dryRun)
	} else {
		runner = platform.NewCommandRunner(app.verbose, app.dryRun)
	}

	repo := arch.NewPacmanSource(runner)
	flatpak := arch.NewFlathubSource(runner)
	aur := arch.NewHelperSource(runner, settings.AURHelper, settings.AUREnabled)

	session := catalog.NewSession(repo, flatpak, aur)
	_ = session.SetFuzzyThreshold(settings.FuzzyThreshold)
	_ = session.SetPageSize(settings.PageSize)

	return &runtimeDeps{
		runner:   runner,
		session:  session,
		aur:      aur,
		ops:      arch.NewOperations(runner, aur.Helper()),
		inspect:  arch.NewInspector(runner),
		settings: settings,
		output:   output,
	}
}

// packageOutput returns the concrete adapter for commands that render
// catalog rows.
func (app *CLI) packageOutput() *cliAdapter.OutputAdapter {
	format := cliAdapter.TextFormat
	if app.json {
		format = cliAdapter.JSONFormat
	}

	return cliAdapter.NewOutputAdapter(format, app.quiet)
}

func (app *CLI) runTUI(ctx context.Context) error {
	deps := app.buildDeps(true)

	err := tui.Run(ctx, tui.Deps{
		Session:   deps.session,
		Ops:       deps.ops,
		Inspector: deps.inspect,
		Version:   app.getVersion(),
	})
	if err != nil {
		if app.verbose {
			return domain.NewExitError(ExitGeneralError, fmt.Sprintf("failed to launch interactive browser: %v", err), nil)
		}

		return domain.NewExitError(ExitGeneralError, "failed to launch interactive browser (terminal required)", nil)
	}

	return nil
}
