package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderAbout renders the about screen with connection details.
func (m Model) renderAbout() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	labelWidth := 12

	row := func(label, value string, style lipgloss.Style) string {
		return bg.Render(padRight(label, labelWidth), styles.MutedText) + bg.Space() + bg.Render(value, style)
	}

	mode, modeStyle := "online", styles.SuccessText
	if m.films.Offline {
		mode, modeStyle = "offline (bundled catalog, local changes only)", styles.WarningText
	}
	apiURL := m.apiURL
	if apiURL == "" {
		apiURL = "not configured"
	}
	logPath := m.logPath
	if logPath == "" {
		logPath = "disabled"
	}

	width := max(m.width-labelWidth-8, 10)
	lines := []string{
		bg.Render("marquee", styles.Logo),
		bg.Render("A terminal client for a film catalog server.", styles.Text),
		"",
		row("Server", truncateMiddle(apiURL, width), styles.AccentText),
		row("Mode", mode, modeStyle),
		row("Films", countLabel(len(m.films.Films), "film"), styles.Text),
		row("Favorites", countLabel(len(m.films.Favorites), "film"), styles.Text),
		row("Users", countLabel(len(m.users.Users), "user"), styles.Text),
		row("Log file", truncateMiddle(logPath, width), styles.Text),
		row("Theme", m.theme.Name+" ("+strings.Join(ThemeNames(), ", ")+")", styles.Text),
		"",
		bg.Render("Favorites live only for this session. Offline edits are not sent to the server.", styles.FaintText),
	}
	return m.renderTitledBox("About", strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}
