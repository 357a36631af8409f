package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewFilms View = iota
	ViewFilmDetail
	ViewNotFound
	ViewUsers
	ViewLogs
	ViewAbout
)

// tabOrder is the cycle used by tab and shift+tab.
var tabOrder = []View{ViewFilms, ViewUsers, ViewLogs, ViewAbout}

// FilmFilter represents the film list filter mode.
type FilmFilter int

const (
	FilterAll FilmFilter = iota
	FilterFavorites
	FilterTopRated
	FilterGenre
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *state.Session
	ThemeName string
	PrefsPath string
	LogPath   string
	APIURL    string

	// Load, when set, runs once in the background after the first frame.
	Load func(ctx context.Context) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *state.Session
	load      func(ctx context.Context) error
	keys      keyMap
	prefsPath string
	logPath   string
	apiURL    string

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = table, 1 = detail
	notice      string

	// Data state
	films       state.FilmSnapshot
	users       state.UserSnapshot
	lastUpdated time.Time
	changes     <-chan struct{}

	// Film list state
	selectedFilm int
	filterMode   FilmFilter
	genre        string

	// Film detail state
	detailID   int64
	missingRef string

	// Users state
	selectedUser int

	// Log state
	logViewport viewport.Model
	logState    logState

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		session:     opts.Session,
		load:        opts.Load,
		keys:        DefaultKeyMap(),
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		apiURL:      opts.APIURL,
		theme:       GetTheme(themeName),
		currentView: ViewFilms,
		logState:    logState{follow: true},
	}
	m.syncSnapshots()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changes), m.loadCmd())
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
		m.updateLogViewport()
		return m, nil

	case changeMsg:
		m.syncSnapshots()
		return m, waitForChange(m.changes)

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case gotoFilmMsg:
		m.modal = nil
		m.openFilm(msg.ref)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case logTickMsg:
		if m.currentView == ViewLogs && m.logState.follow {
			return m, tea.Batch(m.readLogsCmd(), logTickCmd())
		}
		m.logState.ticking = false
		return m, nil
	}

	if m.modal != nil {
		return m.updateModal(msg)
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
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateModal(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		m.logState.dirty = true
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.cycleView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.cycleView(-1))

	case key.Matches(msg, m.keys.ViewFilms):
		return m.switchView(ViewFilms)

	case key.Matches(msg, m.keys.ViewUsers):
		return m.switchView(ViewUsers)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.ViewAbout):
		return m.switchView(ViewAbout)

	case key.Matches(msg, m.keys.GotoFilm):
		m.modal = newGotoFilmForm()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.ClearError):
		m.clearErrors()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.notice = ""
		if m.currentView == ViewFilms && m.focusedPane == 1 {
			m.focusedPane = 0
			return m, nil
		}
		m.currentView = ViewFilms
		return m, nil
	}

	switch m.currentView {
	case ViewFilms:
		return m.handleFilmsKey(msg)
	case ViewFilmDetail:
		return m.handleFilmDetailKey(msg)
	case ViewUsers:
		return m.handleUsersKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// switchView activates a view and starts whatever it needs.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.notice = ""
	if v == ViewLogs {
		cmds := []tea.Cmd{m.readLogsCmd()}
		if !m.logState.ticking && m.logState.follow {
			m.logState.ticking = true
			cmds = append(cmds, logTickCmd())
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// cycleView returns the view dir steps away from the current one in tab order.
// Detail and not-found screens count as the films view.
func (m Model) cycleView(dir int) View {
	current := m.currentView
	if current == ViewFilmDetail || current == ViewNotFound {
		current = ViewFilms
	}
	for i, v := range tabOrder {
		if v == current {
			return tabOrder[(i+dir+len(tabOrder))%len(tabOrder)]
		}
	}
	return ViewFilms
}

// clearErrors dismisses the messages of both stores.
func (m *Model) clearErrors() {
	m.notice = ""
	if m.session == nil {
		return
	}
	m.session.Films.ClearError()
	m.session.Users.ClearError()
	m.syncSnapshots()
}

// syncSnapshots copies the store state into the model.
func (m *Model) syncSnapshots() {
	if m.session == nil {
		return
	}
	m.films = m.session.Films.Snapshot()
	m.users = m.session.Users.Snapshot()
	m.lastUpdated = time.Now()
	m.clampSelection()
}

// handleActionDone routes the result of a store action.
func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.syncSnapshots()
	if msg.modal && m.modal != nil {
		return m.updateModal(msg)
	}
	if msg.err != nil {
		m.notice = ""
		return m, nil
	}
	m.notice = msg.notice
	if msg.after != nil {
		msg.after(&m)
	}
	return m, nil
}

// updateModal forwards a message to the open modal and closes it on request.
func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
		if done, ok := msg.(actionDoneMsg); ok {
			m.notice = done.notice
			if done.after != nil {
				done.after(&m)
			}
		}
		return m, cmd
	}
	m.modal = next
	return m, cmd
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewFilms:
		return m.renderFilms()
	case ViewFilmDetail:
		return m.renderFilmDetail()
	case ViewNotFound:
		return m.renderNotFound()
	case ViewUsers:
		return m.renderUsers()
	case ViewLogs:
		return m.renderLogs()
	case ViewAbout:
		return m.renderAbout()
	default:
		return ""
	}
}

// contentHeight is the height left under the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// Messages

type changeMsg struct{}

// actionDoneMsg reports a finished store action. after runs on the model when
// the action succeeded and needs to move the UI somewhere.
type actionDoneMsg struct {
	modal  bool
	notice string
	err    error
	after  func(*Model)
}

type gotoFilmMsg struct{ ref string }

// Commands

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changeMsg{}
	}
}

// action runs fn with a bounded context and reports its notice or error.
// after, when set, runs on the model once fn has succeeded.
func (m Model) action(modal bool, after func(*Model), fn func(ctx context.Context) (string, error)) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, ActionTimeout)
		defer cancel()
		notice, err := fn(ctx)
		if err != nil {
			return actionDoneMsg{modal: modal, err: err}
		}
		return actionDoneMsg{modal: modal, notice: notice, after: after}
	}
}

// loadCmd runs the startup load. The stores report their own progress and
// failures, so it sets no notice.
func (m Model) loadCmd() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return m.action(false, nil, func(ctx context.Context) (string, error) {
		return "", load(ctx)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	if m.session == nil {
		return nil
	}
	session := m.session
	return m.action(false, nil, func(ctx context.Context) (string, error) {
		if err := session.Refresh(ctx); err != nil {
			return "", err
		}
		return "Reloaded", nil
	})
}

// errorMessage returns the message shown in the header, films first.
func (m Model) errorMessage() string {
	if m.films.Error != "" {
		return m.films.Error
	}
	return m.users.Error
}

// offlineHint explains why a mutation stayed local.
func offlineHint(offline bool) string {
	if offline {
		return " (offline, local only)"
	}
	return ""
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	var cancel func()
	if m.session != nil {
		m.changes, cancel = m.session.Subscribe()
		defer cancel()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil && m.ctx.Err() == nil {
		return err
	}
	return nil
}
