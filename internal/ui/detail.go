package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
)

// handleFilmDetailKey processes keyboard input for the single film screen.
func (m Model) handleFilmDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	f, ok := m.session.Films.FilmByID(m.detailID)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ToggleFavorite):
		m.session.Films.ToggleFavorite(f.ID)
		m.syncSnapshots()
	case key.Matches(msg, m.keys.Edit):
		m.modal = m.newFilmForm(&f)
	case key.Matches(msg, m.keys.Delete):
		m.modal = m.confirmDeleteFilm(f)
	}
	return m, nil
}

// renderFilmDetail renders the full screen view of one film.
func (m Model) renderFilmDetail() string {
	f, ok := m.filmFromSnapshot(m.detailID)
	if !ok {
		// Deleted while open.
		return m.renderMissing(fmt.Sprintf("%d", m.detailID))
	}
	content := m.renderFilmFields(f, m.width-6, m.theme.FocusBg)
	return m.renderTitledBox(fmt.Sprintf("Film #%d", f.ID), content, m.width, m.contentHeight(), true)
}

// renderNotFound renders the screen for an id that matches no film.
func (m Model) renderNotFound() string {
	return m.renderMissing(m.missingRef)
}

func (m Model) renderMissing(ref string) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Film not found"))
	b.WriteString("\n\n")
	if ref != "" {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("No film has the id %q.", ref)))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("esc: back to films  •  :: go to another id"))
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, b.String())
}

// filmFromSnapshot finds a film in the model's snapshot.
func (m Model) filmFromSnapshot(id int64) (catalog.Film, bool) {
	for _, f := range m.films.Films {
		if f.ID == id {
			return f, true
		}
	}
	return catalog.Film{}, false
}

// renderFilmFields renders the labelled fields of a film.
func (m Model) renderFilmFields(f catalog.Film, width int, bgColor string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)
	labelWidth := 10

	row := func(label, value string, style lipgloss.Style) string {
		return bg.Render(padRight(label, labelWidth), styles.MutedText) + bg.Space() + bg.Render(value, style)
	}

	lines := []string{
		bg.Render(truncate(f.Title, width), styles.Text.Bold(true)),
		"",
		row("Year", formatYear(f.Year), styles.Text),
		row("Director", f.Director, styles.Text),
		row("Genre", f.Genre, styles.AccentText),
		row("Rating", formatRating(f.Rating)+" "+ratingBar(f.Rating), styles.Rating),
	}
	if m.isFavorite(f.ID) {
		lines = append(lines, row("Favorite", "♥ yes", styles.Favorite))
	}
	if f.Poster != "" {
		lines = append(lines, row("Poster", truncateMiddle(f.Poster, max(width-labelWidth-1, 10)), styles.InfoText))
	}
	if f.Description != "" {
		lines = append(lines, "")
		for _, l := range wrapText(f.Description, width) {
			lines = append(lines, bg.Render(l, styles.Text))
		}
	}
	return strings.Join(lines, "\n")
}
