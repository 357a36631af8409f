package ui

import (
	"fmt"
	"strings"
	"time"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("marquee", styles.Logo))

	switch {
	case m.films.Loading || m.users.Loading:
		parts = append(parts, styles.Badge("loading").Render("LOADING"))
	case m.films.Offline:
		parts = append(parts, styles.Badge("offline").Render("OFFLINE"))
	default:
		parts = append(parts, styles.Badge("online").Render("ONLINE"))
	}

	parts = append(parts,
		bg.Render("Films:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.films.Films)), styles.Text),
	)
	favStyle := styles.MutedText
	if len(m.films.Favorites) > 0 {
		favStyle = styles.Favorite
	}
	parts = append(parts,
		bg.Render("♥", favStyle)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.films.Favorites)), styles.Text),
	)

	errMsg := m.errorMessage()
	if cur := m.users.CurrentUser; cur != nil {
		user := bg.Render("User:", styles.MutedText) + bg.Space() + bg.Render(truncate(cur.Username, 20), styles.AccentText)
		if cur.IsAdmin() {
			user += bg.Space() + styles.Badge("admin").Render("ADMIN")
		}
		parts = append(parts, user)
	} else if !compact && errMsg == "" {
		parts = append(parts, bg.Render("Not logged in", styles.FaintText))
	}

	// The error gets the room the timestamp would take.
	if ts := m.formatTimestamp(); ts != "" && !compact && errMsg == "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	maxMsg := 80
	if compact {
		maxMsg = 40
	}
	if errMsg != "" {
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(errMsg, maxMsg), styles.DangerText)+bg.Space()+
				bg.Render("(x to dismiss)", styles.FaintText),
		)
	} else if m.notice != "" {
		parts = append(parts, bg.Render(truncate(m.notice, maxMsg), styles.InfoText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewFilmDetail:
		commands = []cmd{
			{"Space", "Favorite"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"esc", "Back"},
		}
	case ViewNotFound:
		commands = []cmd{
			{":", "Go to id"},
			{"esc", "Back"},
		}
	case ViewUsers:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"L", "Log in"},
			{"O", "Log out"},
			{"n", "Add"},
			{"e", "Edit"},
			{"d", "Delete"},
		}
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"G", "Bottom"},
		}
	case ViewAbout:
		commands = []cmd{
			{"1", "Films"},
			{"2", "Users"},
		}
	default:
		commands = []cmd{
			{"f", m.filterLabel()},
			{"g", "Genre"},
			{"Space", "Favorite"},
			{"enter", "Open"},
			{"n", "Add"},
			{"e", "Edit"},
			{"d", "Delete"},
			{":", "Go to"},
		}
	}
	commands = append(commands, cmd{"r", "Reload"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, sep))
}
