package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	Background string // outermost background
	Surface    string // header and command bar
	SurfaceAlt string // unfocused panes
	FocusBg    string // focused pane

	SelectionBg   string
	SelectionText string

	Border      string
	BorderMuted string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// BadgeColors is keyed by badge name: online, offline, loading, error,
	// admin, user, favorite.
	BadgeColors map[string]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Rating   lipgloss.Style
	Favorite lipgloss.Style

	badgeColors map[string]string
	background  string
	muted       string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:    fg(t.Text).Background(lipgloss.Color(t.Surface)),
		SurfaceAlt: fg(t.Text).Background(lipgloss.Color(t.SurfaceAlt)),

		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:     fg(t.Danger).Bold(true),
		Rating:   fg(t.Warning).Bold(true),
		Favorite: fg(t.BadgeColors["favorite"]),

		badgeColors: t.BadgeColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// Badge returns the style for a named badge. Unknown names use the muted color.
func (s Styles) Badge(name string) lipgloss.Style {
	color := s.badgeColors[name]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles all carry bgColor,
// so segments rendered on the header keep its background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Background, &out.Surface, &out.SurfaceAlt,
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Logo, &out.Rating, &out.Favorite,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Noir":     noirTheme(),
	"Marquee":  marqueeTheme(),
}

var themeOrder = []string{"Nightfox", "Noir", "Marquee"}

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderMuted:   "#212e3f",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		BadgeColors: map[string]string{
			"online":   "#81b29a",
			"offline":  "#f4a261",
			"loading":  "#63cdcf",
			"error":    "#c94f6d",
			"admin":    "#9d79d6",
			"user":     "#738091",
			"favorite": "#d67ad2",
		},
	}
}

// Noir is a low-saturation grayscale theme with a single amber accent.
func noirTheme() Theme {
	return Theme{
		Name:          "Noir",
		Background:    "#0b0b0b",
		Surface:       "#151515",
		SurfaceAlt:    "#1e1e1e",
		FocusBg:       "#262626",
		SelectionBg:   "#3a3a3a",
		SelectionText: "#f5f5f5",
		Border:        "#404040",
		BorderMuted:   "#1e1e1e",
		BorderFocus:   "#d4a017",
		Text:          "#e0e0e0",
		Muted:         "#9e9e9e",
		Faint:         "#6e6e6e",
		Accent:        "#d4a017",
		Success:       "#a8c090",
		Warning:       "#d4a017",
		Danger:        "#d0605e",
		Info:          "#a0b4c8",
		BadgeColors: map[string]string{
			"online":   "#a8c090",
			"offline":  "#d4a017",
			"loading":  "#a0b4c8",
			"error":    "#d0605e",
			"admin":    "#c8a2c8",
			"user":     "#6e6e6e",
			"favorite": "#d0605e",
		},
	}
}

// Marquee uses theatre reds and bulb golds on a deep maroon base.
func marqueeTheme() Theme {
	return Theme{
		Name:          "Marquee",
		Background:    "#1a0b0e",
		Surface:       "#2a1015",
		SurfaceAlt:    "#35151b",
		FocusBg:       "#441c23",
		SelectionBg:   "#8c1c2c",
		SelectionText: "#fff4d6",
		Border:        "#5e2a33",
		BorderMuted:   "#35151b",
		BorderFocus:   "#f2c14e",
		Text:          "#f5e6cc",
		Muted:         "#c4a57f",
		Faint:         "#8f7560",
		Accent:        "#f2c14e",
		Success:       "#9bc27a",
		Warning:       "#f2c14e",
		Danger:        "#ff5a5f",
		Info:          "#7fc8d6",
		BadgeColors: map[string]string{
			"online":   "#9bc27a",
			"offline":  "#f29e4c",
			"loading":  "#7fc8d6",
			"error":    "#ff5a5f",
			"admin":    "#f2c14e",
			"user":     "#8f7560",
			"favorite": "#ff5a5f",
		},
	}
}
