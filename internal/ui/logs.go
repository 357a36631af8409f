package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	entries     []logtail.Entry
	follow      bool
	ticking     bool
	dirty       bool
	err         error
	lastRefresh time.Time
}

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

type logTickMsg struct{}

func logTickCmd() tea.Cmd {
	return tea.Tick(LogRefreshInterval, func(time.Time) tea.Msg { return logTickMsg{} })
}

// readLogsCmd tails the client's own log file.
func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		return logLinesMsg{entries: logtail.ParseAll(lines)}
	}
}

// handleLogLines stores a fresh read and re-renders when it changed.
func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.lastRefresh = time.Now()
	m.logState.err = msg.err
	if msg.err != nil {
		return
	}
	if !sameEntries(m.logState.entries, msg.entries) {
		m.logState.entries = msg.entries
		m.logState.dirty = true
	}
	m.updateLogViewport()
}

func sameEntries(a, b []logtail.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return a[0].Raw == b[0].Raw && a[len(a)-1].Raw == b[len(b)-1].Raw
}

// updateLogViewport sizes the viewport and refreshes its content when dirty.
func (m *Model) updateLogViewport() {
	width := max(m.width-2, 1)
	height := max(m.contentHeight()-3, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
		m.logState.dirty = true
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logState.dirty {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.dirty = false
	}
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogContent colors every entry for the viewport.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	if len(m.logState.entries) == 0 {
		return bg.Render("No log entries yet", styles.MutedText)
	}
	lines := make([]string, len(m.logState.entries))
	for i, e := range m.logState.entries {
		lines[i] = m.formatLogEntry(e, styles, bg)
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 INFO message key=value".
func (m Model) formatLogEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" {
		return bg.Render(e.Raw, styles.MutedText)
	}
	var b strings.Builder
	if ts := e.ShortTime(); ts != "" {
		b.WriteString(bg.Render(ts, styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(padRight(e.Level, 5), levelStyle(e.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Message, styles.Text))
	for _, a := range e.Attrs {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(a.Key+"=", styles.MutedText))
		b.WriteString(bg.Render(a.Value, styles.AccentText))
	}
	return b.String()
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	height := m.contentHeight()

	title := "Client Log"
	if m.logPath != "" {
		title += " " + truncateMiddle(m.logPath, max(m.width/2, 10))
	}
	box := m.renderTitledBox(title, m.logViewport.View(), m.width, height-1, true)

	tail := "off"
	if m.logState.follow {
		tail = "on"
	}
	status := bg.Render(fmt.Sprintf("%s auto-tail %s", countLabel(len(m.logState.entries), "line"), tail), styles.FaintText)
	if m.logState.err != nil {
		status += bg.Spaces(2) + bg.Render(m.logState.err.Error(), styles.DangerText)
	}
	return box + "\n" + bg.FillLine(status, m.width)
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
		}
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}
	if m.logState.follow && !m.logState.ticking {
		m.logState.ticking = true
		return m, tea.Batch(m.readLogsCmd(), logTickCmd())
	}
	return m, nil
}
