package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var helpTitles = []string{"Navigation", "Movement", "Films", "Users", "Logs", "General"}

// renderHelp renders the help overlay from the key map in two columns.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	groups := m.keys.FullHelp()
	half := (len(groups) + 1) / 2
	left := m.renderHelpGroups(groups[:half], helpTitles[:half], keyStyle, styles)
	right := m.renderHelpGroups(groups[half:], helpTitles[half:], keyStyle, styles)

	content := modalTitle(styles, "Keyboard Shortcuts", 64) +
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(34).Render(left),
			lipgloss.NewStyle().Width(34).Render(right),
		)
	return placeModal(m.theme, m.width, m.height, content, 74)
}

func (m Model) renderHelpGroups(groups [][]key.Binding, titles []string, keyStyle lipgloss.Style, styles Styles) string {
	var b strings.Builder
	for i, group := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		if i < len(titles) {
			b.WriteString(styles.AccentText.Bold(true).Render(titles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key) + styles.Text.Render(h.Desc) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
