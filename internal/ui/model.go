package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ebs/internal/catalog"
	"github.com/five82/ebs/internal/prefs"
	"github.com/five82/ebs/internal/results"
	"github.com/five82/ebs/internal/state"
)

// Options configure the search screen.
type Options struct {
	Events    *Events
	Outputs   Outputs
	Health    *state.Store
	Logger    *slog.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	// Messages supplies the initial title before the pipeline reports one.
	Messages results.Messages
}

// Model is the root Bubble Tea model of the search screen.
type Model struct {
	events    *Events
	outputs   Outputs
	health    *state.Store
	logger    *slog.Logger
	prefs     prefs.Prefs
	prefsPath string

	theme  Theme
	styles Styles
	keys   keyMap
	help   help.Model

	input     textinput.Model
	searching bool
	kind      catalog.SearchKind

	spinner spinner.Model
	loading bool
	title   string

	rows   results.Snapshot
	starts []int
	cursor int
	list   viewport.Model

	width  int
	height int
}

// New builds the model. It does not send any event.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	msgs := opts.Messages
	if msgs == (results.Messages{}) {
		msgs = results.DefaultMessages()
	}

	theme := GetTheme(opts.Prefs.Theme)
	styles := theme.Styles()

	ti := textinput.New()
	ti.Placeholder = "Search beers"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.AccentText

	m := Model{
		events:    opts.Events,
		outputs:   opts.Outputs,
		health:    opts.Health,
		logger:    logger,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		theme:     theme,
		styles:    styles,
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     ti,
		kind:      opts.Prefs.Kind(),
		spinner:   s,
		title:     msgs.Loading,
		list:      viewport.New(80, 20),
	}
	m.applyPlaceholder()
	return m
}

// Init starts listening to the pipeline outputs.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitSnapshot(m.outputs.Snapshots),
		waitIndicator(m.outputs.Hidden),
		waitTitle(m.outputs.Titles),
	)
}

// Update handles messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.applySnapshot(msg.snapshot)
		return m, waitSnapshot(m.outputs.Snapshots)

	case indicatorMsg:
		m.loading = !msg.hidden
		cmds := []tea.Cmd{waitIndicator(m.outputs.Hidden)}
		if m.loading {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case titleMsg:
		m.title = msg.title
		return m, waitTitle(m.outputs.Titles)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if !m.searching || msg.Type != tea.KeyRunes {
			m.moveCursor(-1)
			return m, nil
		}
	case key.Matches(msg, m.keys.Down):
		if !m.searching || msg.Type != tea.KeyRunes {
			m.moveCursor(1)
			return m, nil
		}
	case key.Matches(msg, m.keys.Scope):
		m.toggleScope()
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.submit(results.Search{Query: m.input.Value(), Kind: m.kind})
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.cancelSearch()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.events.Filter(after)
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.events.SearchAppeared()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Submit):
		if entry, ok := m.selected().(results.PreviousSearchEntry); ok {
			m.kind = entry.Kind
			m.input.SetValue(entry.Query)
			m.applyPlaceholder()
			m.submit(results.Search{Query: entry.Query, Kind: entry.Kind})
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.cancelSearch()
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}
	return m, nil
}

func (m *Model) submit(search results.Search) {
	m.searching = false
	m.input.Blur()
	m.events.Submit(search)
}

func (m *Model) cancelSearch() {
	m.searching = false
	m.input.Blur()
	m.input.Reset()
	m.events.Cancel()
}

func (m *Model) toggleScope() {
	m.kind = m.kind.Toggle()
	m.applyPlaceholder()
	m.prefs = m.prefs.WithKind(m.kind)
	m.savePrefs()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.styles = m.theme.Styles()
	m.spinner.Style = m.styles.AccentText
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
	m.refreshList()
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save preferences failed", "error", err)
	}
}

func (m *Model) applyPlaceholder() {
	if m.kind == catalog.KindBrewery {
		m.input.Placeholder = "Search breweries"
		return
	}
	m.input.Placeholder = "Search beers"
}

// applySnapshot replaces the rows, keeping the selection on the same row
// when it is still present.
func (m *Model) applySnapshot(snap results.Snapshot) {
	var selectedKey string
	if sel := m.selected(); sel != nil {
		selectedKey = sel.Key()
	}
	change := results.Diff(m.rows, snap)
	m.rows = snap

	m.cursor = 0
	if selectedKey != "" {
		if idx := snap.IndexOf(selectedKey); idx >= 0 {
			m.cursor = idx
		}
	}
	m.logger.Debug("snapshot applied",
		"rows", len(snap),
		"inserted", len(change.Inserted),
		"removed", len(change.Removed),
	)
	m.refreshList()
	if !change.Empty() && m.cursor == 0 {
		m.list.GotoTop()
	}
}

func (m Model) selected() results.Entry {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	m.refreshList()
}

func (m *Model) refreshList() {
	content, starts := renderRows(m.rows, m.cursor, m.list.Width, m.styles)
	m.starts = starts
	m.list.SetContent(content)
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	if m.cursor >= len(m.starts) {
		return
	}
	top := m.starts[m.cursor]
	bottom := m.list.TotalLineCount() - 1
	if m.cursor+1 < len(m.starts) {
		bottom = m.starts[m.cursor+1] - 1
	}
	switch {
	case top < m.list.YOffset:
		m.list.SetYOffset(top)
	case bottom >= m.list.YOffset+m.list.Height:
		m.list.SetYOffset(bottom - m.list.Height + 1)
	}
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	chrome := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.renderSearchBar()) +
		lipgloss.Height(m.renderFooter())
	m.list.Width = m.width
	m.list.Height = max(m.height-chrome, 1)
	m.refreshList()
}

// View renders the screen.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSearchBar(),
		m.list.View(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	parts := []string{
		m.styles.Logo.Render("ebs"),
		m.styles.Title.Render(m.title),
	}
	if m.loading {
		parts = append(parts, m.spinner.View())
	}
	parts = append(parts, m.styles.KindBadge(m.kind.String()).Render(m.kind.Label()))

	if m.health != nil {
		if snap := m.health.Snapshot(); snap.IsOffline() {
			parts = append(parts, m.styles.DangerText.Render(
				fmt.Sprintf("OFFLINE (%d failures)", snap.ConsecutiveFailures)))
		}
	}

	header := m.styles.Header
	if m.width > 0 {
		header = header.Width(m.width)
	}
	return header.Render(strings.Join(parts, "  "))
}

func (m Model) renderSearchBar() string {
	style := m.styles.SearchBar
	if m.searching {
		style = m.styles.SearchBarFocus
	}
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(m.input.View())
}

func (m Model) renderFooter() string {
	return m.styles.Footer.Render(
		m.help.View(m.keys) + "  " +
			m.styles.FaintText.Render("theme: "+m.theme.Name))
}
