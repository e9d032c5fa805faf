package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/browser"

	"github.com/five82/lunchbox/internal/favorites"
	"github.com/five82/lunchbox/internal/i18n"
	"github.com/five82/lunchbox/internal/mealdb"
	"github.com/five82/lunchbox/internal/prefs"
	"github.com/five82/lunchbox/internal/render"
	"github.com/five82/lunchbox/internal/viewstate"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Fetcher    mealdb.Fetcher
	Favorites  *favorites.Store
	Controller *viewstate.Controller
	Language   i18n.Switcher
	Catalog    *i18n.Catalog
	Logger     hclog.Logger
	ThemeName  string
	PrefsPath  string
	Mouse      bool

	// OpenURL opens a link in the user's browser. Defaults to browser.OpenURL.
	OpenURL func(url string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	fetcher   mealdb.Fetcher
	favs      *favorites.Store
	ctrl      *viewstate.Controller
	lang      i18n.Switcher
	catalog   *i18n.Catalog
	logger    hclog.Logger
	openURL   func(string) error
	prefsPath string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	spinner spinner.Model
	body    viewport.Model

	// Meal state
	expanded bool
	failure  mealdb.Failure

	// Dropdown state
	dropdownOpen bool
	cursor       int

	showHelp bool
	toast    toast
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = viewstate.New(viewstate.LatestIssued)
	}

	lang := opts.Language
	if lang == nil {
		lang = &i18n.Fixed{Lang: i18n.English}
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = i18n.NewCatalog()
	}

	openURL := opts.OpenURL
	if openURL == nil {
		openURL = browser.OpenURL
	}

	theme := GetTheme(themeName)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	return Model{
		ctx:       ctx,
		fetcher:   opts.Fetcher,
		favs:      opts.Favorites,
		ctrl:      ctrl,
		lang:      lang,
		catalog:   catalog,
		logger:    logger.Named("ui"),
		openURL:   openURL,
		prefsPath: prefsPath,
		theme:     theme,
		keys:      DefaultKeyMap(),
		spinner:   sp,
		body:      viewport.New(0, 0),
	}
}

// Init implements tea.Model. The first proposal is requested immediately.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.fetcher != nil {
		t := m.ctrl.Begin()
		cmds = append(cmds, fetchMealCmd(m.ctx, t, opRandom, m.fetcher.FetchRandom))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.body.Width = m.width
		m.body.Height = maxInt(1, m.contentHeight()-mealHeadRows)
		m.syncBody()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.State() != viewstate.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case mealMsg:
		return m.handleMeal(msg)

	case openedMsg:
		if msg.err != nil {
			m.logger.Warn("open browser failed", "url", msg.url, "error", msg.err)
			return m, m.toast.show(m.printer().T("Could not open browser"), true)
		}
		return m, nil

	case toastHideMsg:
		m.toast.hide(msg.seq)
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

	return m.renderMain()
}

// handleMeal applies a fetch result if the controller accepts its ticket.
func (m Model) handleMeal(msg mealMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("fetch failed",
			"op", msg.op,
			"ticket", uint64(msg.ticket),
			"kind", kindOf(msg.err),
			"error", msg.err,
		)
	}

	if !m.ctrl.Resolve(msg.ticket, msg.meal, msg.err) {
		m.logger.Debug("discarding stale result", "op", msg.op, "ticket", uint64(msg.ticket))
		return m, nil
	}

	if msg.err != nil {
		m.failure = mealdb.FailureOf(msg.err)
		return m, nil
	}

	m.logger.Debug("meal loaded", "op", msg.op, "id", msg.meal.ID)
	m.syncBody()
	m.body.GotoTop()
	return m, nil
}

// viewModel renders the current state.
func (m Model) viewModel() render.ViewModel {
	meal, has := m.ctrl.Meal()
	lang := m.lang.Current()

	var entries []favorites.Entry
	if m.favs != nil {
		entries = m.favs.Entries()
	}

	return render.Render(render.State{
		View:         m.ctrl.State(),
		Meal:         meal,
		HasMeal:      has,
		Failure:      m.failure,
		Favorites:    entries,
		DropdownOpen: m.dropdownOpen,
		Expanded:     m.expanded,
		Lang:         lang,
		Text:         m.catalog.Printer(lang),
	})
}

func (m Model) printer() i18n.Printer {
	return m.catalog.Printer(m.lang.Current())
}

// syncBody refreshes the scrollable meal body after anything it shows changes.
func (m *Model) syncBody() {
	if !m.ready {
		return
	}
	if _, ok := m.ctrl.Meal(); !ok {
		m.body.SetContent("")
		return
	}
	m.body.SetContent(m.bodyContent(m.viewModel()))
}

func kindOf(err error) string {
	var fe *mealdb.FetchError
	if errors.As(err, &fe) {
		return fe.Kind.String()
	}
	return "unknown"
}

// Messages

// Fetch operation names, used in logs.
const (
	opRandom = "random"
	opLookup = "lookup"
)

type mealMsg struct {
	ticket viewstate.Ticket
	op     string
	meal   mealdb.Meal
	err    error
}

type openedMsg struct {
	url string
	err error
}

// Commands

func fetchMealCmd(ctx context.Context, ticket viewstate.Ticket, op string, fetch viewstate.FetchOp) tea.Cmd {
	return func() tea.Msg {
		meal, err := fetch(ctx)
		return mealMsg{ticket: ticket, op: op, meal: meal, err: err}
	}
}

func openURLCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	if opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
