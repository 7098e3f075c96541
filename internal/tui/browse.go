// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mlundqv/pacvista/internal/domain"
	"github.com/mlundqv/pacvista/internal/tui/styles"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Layout constants.
const (
	chromeHeight    = 6 // header, tabs, search line, footer and margins
	minListRows     = 3
	minContentWidth = 20
	borderPadding   = 4 // overlay border and padding, 2 per side
	nameColumn      = 40
	labelColumn     = 24
)

// catalogLoadedMsg is sent when the initial source fetch finishes.
type catalogLoadedMsg struct{}

// aurHitsMsg carries helper search results fetched off the UI loop.
type aurHitsMsg struct {
	term string
	hits []domain.PackageRecord
}

// operationDoneMsg is sent when an install or remove finishes.
type operationDoneMsg struct {
	verb string
	name string
	err  error
}

// infoRenderedMsg carries rendered package metadata for the overlay.
type infoRenderedMsg struct {
	content string
	err     error
}

// browser is the single bubbletea model for the package browser. All
// catalog state lives in the session; the model only holds the
// rendered page and presentation state.
//
//nolint:containedctx // the context must reach commands spawned per keypress
type browser struct {
	ctx    context.Context
	deps   Deps
	styles *styles.Styles

	width  int
	height int

	views   []domain.View
	viewIdx int

	input     textinput.Model
	searching bool

	spinner spinner.Model
	loading bool
	busy    bool

	rows    []domain.PackageRecord
	hasMore bool
	counts  domain.Counts
	cursor  int

	overlay     bool
	overlayView viewport.Model
	status      string

	quitting bool
}

func newBrowser(ctx context.Context, deps Deps) *browser {
	input := textinput.New()
	input.Placeholder = "search packages"
	input.CharLimit = 64

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &browser{
		ctx:     ctx,
		deps:    deps,
		styles:  styles.New(),
		views:   domain.Views(),
		viewIdx: len(domain.Views()) - 1, // start on the all view
		input:   input,
		spinner: spin,
		loading: true,
	}
}

func (b *browser) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, b.loadCatalog())
}

func (b *browser) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		b.deps.Session.Load(b.ctx)

		return catalogLoadedMsg{}
	}
}

func (b *browser) fetchAURHits(term string) tea.Cmd {
	return func() tea.Msg {
		hits := b.deps.Session.FetchAURHits(b.ctx, term)

		return aurHitsMsg{term: term, hits: hits}
	}
}

func (b *browser) runOperation(rec domain.PackageRecord) tea.Cmd {
	verb := "Installed"
	operate := b.deps.Ops.Install

	if rec.Installed {
		verb = "Removed"
		operate = b.deps.Ops.Remove
	}

	return func() tea.Msg {
		defer b.deps.Session.EndOperation()

		err := operate(b.ctx, rec)

		// Reconcile even when the tool failed: a partial run can still
		// have changed installed state.
		b.deps.Session.OperationComplete(b.ctx)

		return operationDoneMsg{verb: verb, name: rec.Name, err: err}
	}
}

func (b *browser) runSystemUpdate() tea.Cmd {
	return func() tea.Msg {
		defer b.deps.Session.EndOperation()

		err := b.deps.Ops.UpdateSystem(b.ctx)
		b.deps.Session.OperationComplete(b.ctx)

		return operationDoneMsg{verb: "Updated", name: "system", err: err}
	}
}

func (b *browser) fetchInfo(name string) tea.Cmd {
	return func() tea.Msg {
		fields, err := b.deps.Inspector.Info(b.ctx, name)
		if err != nil {
			return infoRenderedMsg{err: err}
		}

		var md strings.Builder

		md.WriteString(fmt.Sprintf("# %s\n\n", name))

		for _, field := range fields {
			md.WriteString(fmt.Sprintf("**%s**: %s\n\n", field.Key, field.Value))
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return infoRenderedMsg{err: err}
		}

		content, err := renderer.Render(md.String())

		return infoRenderedMsg{content: content, err: err}
	}
}

// refresh re-reads the current page from the session and clamps the
// cursor to it.
func (b *browser) refresh() {
	b.rows, b.hasMore, b.counts = b.deps.Session.Page()

	if b.cursor >= len(b.rows) {
		b.cursor = len(b.rows) - 1
	}

	if b.cursor < 0 {
		b.cursor = 0
	}
}

func (b *browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height

		return b, nil

	case spinner.TickMsg:
		if !b.loading && !b.busy {
			return b, nil
		}

		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)

		return b, cmd

	case catalogLoadedMsg:
		b.loading = false
		b.refresh()

		return b, nil

	case aurHitsMsg:
		b.deps.Session.ApplyAURHits(msg.term, msg.hits)
		b.refresh()

		return b, nil

	case operationDoneMsg:
		b.busy = false

		if msg.err != nil {
			b.status = b.styles.ErrorText.Render(fmt.Sprintf("%s: %v", msg.name, msg.err))
		} else {
			b.status = b.styles.SuccessText.Render(fmt.Sprintf("%s %s", msg.verb, msg.name))
		}

		b.refresh()

		return b, nil

	case infoRenderedMsg:
		if msg.err != nil {
			b.status = b.styles.ErrorText.Render(msg.err.Error())
		} else {
			b.overlay = true
			b.overlayView = viewport.New(b.overlayWidth(), b.listHeight())
			b.overlayView.SetContent(msg.content)
		}

		return b, nil

	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	return b, nil
}

func (b *browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.overlay {
		switch msg.String() {
		case "esc", "q", "enter":
			b.overlay = false

			return b, nil
		}

		var cmd tea.Cmd
		b.overlayView, cmd = b.overlayView.Update(msg)

		return b, cmd
	}

	if b.searching {
		return b.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		b.quitting = true

		return b, tea.Quit

	case "/":
		b.searching = true
		b.input.Focus()

		return b, textinput.Blink

	case "esc":
		if b.deps.Session.Search() != "" {
			b.input.SetValue("")
			b.deps.Session.SetSearch("")
			b.cursor = 0
			b.refresh()
		}

		return b, nil

	case "tab", "right", "l":
		return b.switchView((b.viewIdx + 1) % len(b.views))

	case "shift+tab", "left", "h":
		return b.switchView((b.viewIdx + len(b.views) - 1) % len(b.views))

	case "1", "2", "3", "4", "5":
		return b.switchView(int(msg.String()[0] - '1'))

	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}

		return b, nil

	case "down", "j":
		return b.moveDown()

	case "enter", " ":
		return b.toggleSelected()

	case "i":
		if rec, ok := b.selected(); ok {
			return b, b.fetchInfo(rec.Name)
		}

		return b, nil

	case "u":
		return b.startSystemUpdate()

	case "r":
		b.loading = true
		b.status = ""

		return b, tea.Batch(b.spinner.Tick, b.loadCatalog())
	}

	return b, nil
}

func (b *browser) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		b.searching = false
		b.input.Blur()
		b.cursor = 0

		term := strings.TrimSpace(b.input.Value())

		needsAUR := b.deps.Session.SetSearch(term)
		if term != "" {
			// Searching lands on the all view.
			b.viewIdx = len(b.views) - 1
		}

		b.refresh()

		if needsAUR {
			return b, b.fetchAURHits(term)
		}

		return b, nil

	case "esc":
		b.searching = false
		b.input.Blur()
		b.input.SetValue("")
		b.deps.Session.SetSearch("")
		b.cursor = 0
		b.refresh()

		return b, nil
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)

	return b, cmd
}

func (b *browser) switchView(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(b.views) {
		return b, nil
	}

	b.viewIdx = idx
	b.cursor = 0
	b.status = ""
	_ = b.deps.Session.SetView(b.views[idx])
	b.refresh()

	return b, nil
}

// moveDown advances the cursor, pulling in the next page when the
// cursor hits the end of the loaded rows.
func (b *browser) moveDown() (tea.Model, tea.Cmd) {
	if b.cursor < len(b.rows)-1 {
		b.cursor++

		return b, nil
	}

	if b.hasMore && b.deps.Session.Advance() {
		b.refresh()
		b.cursor++
	}

	return b, nil
}

func (b *browser) selected() (domain.PackageRecord, bool) {
	if b.cursor < 0 || b.cursor >= len(b.rows) {
		return domain.PackageRecord{}, false
	}

	return b.rows[b.cursor], true
}

// toggleSelected installs or removes the selected package. The session
// guard keeps a second operation from starting while one runs.
func (b *browser) toggleSelected() (tea.Model, tea.Cmd) {
	rec, ok := b.selected()
	if !ok || b.deps.Ops == nil {
		return b, nil
	}

	if err := b.deps.Session.BeginOperation(); err != nil {
		b.status = b.styles.WarningText.Render("An operation is already running")

		return b, nil
	}

	b.busy = true
	b.status = ""

	return b, tea.Batch(b.spinner.Tick, b.runOperation(rec))
}

// startSystemUpdate runs a full upgrade behind the same single-flight
// guard as install and remove.
func (b *browser) startSystemUpdate() (tea.Model, tea.Cmd) {
	if b.deps.Ops == nil {
		return b, nil
	}

	if err := b.deps.Session.BeginOperation(); err != nil {
		b.status = b.styles.WarningText.Render("An operation is already running")

		return b, nil
	}

	b.busy = true
	b.status = ""

	return b, tea.Batch(b.spinner.Tick, b.runSystemUpdate())
}

func (b *browser) View() string {
	if b.quitting {
		return ""
	}

	var sections []string

	sections = append(sections,
		b.renderHeader(),
		b.renderTabs(),
		b.renderSearchLine(),
	)

	if b.overlay {
		sections = append(sections, b.styles.Overlay.Render(b.overlayView.View()))
	} else {
		sections = append(sections, b.renderList())
	}

	sections = append(sections, b.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (b *browser) renderHeader() string {
	title := fmt.Sprintf("pacvista %s", b.deps.Version)
	summary := fmt.Sprintf("%d packages, %d installed (pacman %d, flatpak %d, aur %d)",
		b.counts.Total, b.counts.Installed, b.counts.Pacman, b.counts.Flatpak, b.counts.AUR)

	return b.styles.Header.Render(title) + " " + b.styles.MutedText.Render(summary)
}

func (b *browser) renderTabs() string {
	caser := cases.Title(language.English)
	tabs := make([]string, 0, len(b.views))

	for i, view := range b.views {
		label := caser.String(string(view))
		if view == domain.ViewAUR {
			label = "AUR"
		}

		label = fmt.Sprintf("%d %s", i+1, label)

		if i == b.viewIdx {
			tabs = append(tabs, b.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, b.styles.TabInactive.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (b *browser) renderSearchLine() string {
	if b.searching {
		return "/" + b.input.View()
	}

	if term := b.deps.Session.Search(); term != "" {
		return b.styles.MutedText.Render("search: ") + term
	}

	return b.styles.MutedText.Render("press / to search")
}

func (b *browser) renderList() string {
	if b.loading {
		return b.spinner.View() + " Loading packages..."
	}

	if len(b.rows) == 0 {
		return b.styles.MutedText.Render(b.deps.Session.EmptyMessage())
	}

	listRows := b.listHeight()
	start := b.windowStart(listRows)

	lines := make([]string, 0, listRows+1)

	for i := start; i < len(b.rows) && i < start+listRows; i++ {
		lines = append(lines, b.renderRow(i))
	}

	if b.hasMore {
		lines = append(lines, b.styles.MutedText.Render("  ... more (j to load)"))
	}

	return strings.Join(lines, "\n")
}

func (b *browser) renderRow(idx int) string {
	rec := b.rows[idx]

	marker := " "
	if rec.Installed {
		marker = b.styles.Installed.Render("*")
	}

	name := runewidth.Truncate(rec.Name, nameColumn, "...")
	name = runewidth.FillRight(name, nameColumn)

	label := runewidth.Truncate(rec.OriginLabel, labelColumn, "...")
	label = runewidth.FillRight(label, labelColumn)

	line := fmt.Sprintf("%s %s %s %s", marker, name, label, b.styles.Source.Render(string(rec.SourceKind)))

	if idx == b.cursor {
		return b.styles.RowSelected.Render("> " + line)
	}

	return "  " + line
}

func (b *browser) renderFooter() string {
	if b.busy {
		return b.styles.Footer.Render(b.spinner.View() + " working...")
	}

	if b.status != "" {
		return b.styles.Footer.Render(b.status)
	}

	help := "enter install/remove | i info | u update | / search | tab views | r reload | q quit"

	return b.styles.Footer.Render(help)
}

// listHeight returns how many rows fit between the chrome lines.
func (b *browser) listHeight() int {
	rows := b.height - chromeHeight
	if rows < minListRows {
		return minListRows
	}

	return rows
}

// overlayWidth bounds the metadata overlay to the terminal width.
func (b *browser) overlayWidth() int {
	if width := b.width - borderPadding; width > minContentWidth {
		return width
	}

	return minContentWidth
}

// windowStart keeps the cursor inside the visible window.
func (b *browser) windowStart(listRows int) int {
	if b.cursor < listRows {
		return 0
	}

	return b.cursor - listRows + 1
}
