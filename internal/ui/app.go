package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/prefs"
	"github.com/five82/storefront/internal/query"
	"github.com/five82/storefront/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Fetcher   catalog.Fetcher
	Limit     int
	Locale    language.Tag
	ThemeName string
	PrefsPath string
	Logger    logrus.FieldLogger
}

// Model is the root application state for Bubble Tea. Stores are only
// touched from Update.
type Model struct {
	ctx       context.Context
	catalog   *state.CatalogStore
	detail    *state.DetailStore
	locale    language.Tag
	prefsPath string
	log       logrus.FieldLogger

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   Theme
	width   int
	height  int
	ready   bool
	route   Route

	showHelp bool

	// List screen
	query      query.Query
	visible    []catalog.Item
	categories []string
	selected   int
	offset     int
	search     textinput.Model
	searching  bool

	// Detail screen
	viewport viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = language.English
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = catalog.DefaultLimit
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title or description"
	search.CharLimit = 120

	m := Model{
		ctx:        ctx,
		catalog:    state.NewCatalogStore(opts.Fetcher, limit, log),
		detail:     state.NewDetailStore(opts.Fetcher, log),
		locale:     locale,
		prefsPath:  prefsPath,
		log:        log.WithField("component", "ui"),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		route:      Route{Screen: ScreenList},
		query:      query.Query{Sort: query.TitleAscending, Category: query.AllCategories},
		categories: []string{query.AllCategories},
		search:     search,
		viewport:   viewport.New(0, 0),
	}
	m.applyTheme(GetTheme(opts.ThemeName))
	return m
}

// Init mounts the list screen.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		runCatalog(m.catalog.Mount(m.ctx)),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = max(msg.Width-1, 0)
		m.search.Width = max(msg.Width-4, 10)
		m.viewport.Width = max(msg.Width-4, 1)
		m.viewport.Height = max(m.contentHeight()-boxBorderLines, 1)
		m.ensureSelectionVisible()
		m.refreshDetail()
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.route.Screen == ScreenDetail {
			m.refreshDetail()
		}
		return m, cmd

	case catalogResultMsg:
		if m.catalog.Complete(msg.result) {
			m.recompute()
		}
		return m, nil

	case itemResultMsg:
		if m.detail.Complete(msg.result) {
			m.refreshDetail()
			m.viewport.GotoTop()
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	content := m.renderList()
	if m.route.Screen == ScreenDetail {
		content = m.renderDetail()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderSearchLine(),
		content,
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "?":
		m.showHelp = true
		return m, nil
	case "T":
		m.cycleTheme()
		return m, nil
	}

	if m.route.Screen == ScreenDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.catalog.Unmount()
	m.detail.Unmount()
	return m, tea.Quit
}

func (m *Model) cycleTheme() {
	m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.log.WithError(err).Warn("save prefs")
	}
	m.refreshDetail()
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	styles := t.Styles().WithBackground(t.Surface)
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.Ellipsis = styles.FaintText
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.search.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	m.search.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	m.search.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
}

// loading reports whether the screen on display is waiting on a fetch.
func (m Model) loading() bool {
	if m.route.Screen == ScreenDetail {
		return m.detail.State().Phase == state.Loading
	}
	return m.catalog.State().Phase == state.Loading
}

// Route returns the current navigation route.
func (m Model) Route() Route {
	return m.route
}

// Query returns the list screen's current query.
func (m Model) Query() query.Query {
	return m.query
}

// Visible returns the items the list screen currently shows.
func (m Model) Visible() []catalog.Item {
	return m.visible
}

// Messages

type catalogResultMsg struct {
	result state.Result[[]catalog.Item]
}

type itemResultMsg struct {
	result state.Result[catalog.Item]
}

// Commands

func runCatalog(pending state.Pending[[]catalog.Item]) tea.Cmd {
	if pending == nil {
		return nil
	}
	return func() tea.Msg {
		return catalogResultMsg{result: pending()}
	}
}

func runItem(pending state.Pending[catalog.Item]) tea.Cmd {
	if pending == nil {
		return nil
	}
	return func() tea.Msg {
		return itemResultMsg{result: pending()}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	teaOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		teaOpts = append(teaOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, teaOpts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "run tui")
	}
	return nil
}
