package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
)

// genreChoices are offered as completions in the film form.
var genreChoices = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Fantasy", "Horror", "Romance", "Sci-Fi", "Thriller",
}

// visibleFilms returns the films shown under the current filter.
func (m Model) visibleFilms() []catalog.Film {
	if m.session == nil {
		return m.films.Films
	}
	switch m.filterMode {
	case FilterFavorites:
		return m.session.Films.FavoriteFilms()
	case FilterTopRated:
		return m.session.Films.TopRatedFilms()
	case FilterGenre:
		return m.session.Films.FilmsByGenre(m.genre)
	default:
		return m.films.Films
	}
}

// selectedFilmRecord returns the film under the cursor.
func (m Model) selectedFilmRecord() (catalog.Film, bool) {
	films := m.visibleFilms()
	if m.selectedFilm < 0 || m.selectedFilm >= len(films) {
		return catalog.Film{}, false
	}
	return films[m.selectedFilm], true
}

// clampSelection keeps cursors inside their lists after a change.
func (m *Model) clampSelection() {
	if m.filterMode == FilterGenre && !containsString(m.session.Films.Genres(), m.genre) {
		m.filterMode = FilterAll
		m.genre = ""
	}
	if n := len(m.visibleFilms()); m.selectedFilm >= n {
		m.selectedFilm = max(n-1, 0)
	}
	if n := len(m.users.Users); m.selectedUser >= n {
		m.selectedUser = max(n-1, 0)
	}
}

// selectFilmID moves the cursor to the film with id when it is visible.
func (m *Model) selectFilmID(id int64) {
	for i, f := range m.visibleFilms() {
		if f.ID == id {
			m.selectedFilm = i
			return
		}
	}
}

// cycleFilter cycles All -> Favorites -> Top rated -> each genre -> All.
func (m *Model) cycleFilter() {
	switch m.filterMode {
	case FilterAll:
		m.filterMode = FilterFavorites
	case FilterFavorites:
		m.filterMode = FilterTopRated
	case FilterTopRated:
		if genres := m.session.Films.Genres(); len(genres) > 0 {
			m.filterMode = FilterGenre
			m.genre = genres[0]
		} else {
			m.filterMode = FilterAll
		}
	default:
		m.filterMode = FilterAll
		m.genre = ""
	}
	m.selectedFilm = 0
}

// cycleGenre jumps straight to the next genre filter.
func (m *Model) cycleGenre() {
	genres := m.session.Films.Genres()
	if len(genres) == 0 {
		return
	}
	next := genres[0]
	if m.filterMode == FilterGenre {
		for i, g := range genres {
			if g == m.genre {
				next = genres[(i+1)%len(genres)]
				break
			}
		}
	}
	m.filterMode = FilterGenre
	m.genre = next
	m.selectedFilm = 0
}

// filterLabel returns the display label for the current filter mode.
func (m Model) filterLabel() string {
	switch m.filterMode {
	case FilterFavorites:
		return "Favorites"
	case FilterTopRated:
		return "Top rated"
	case FilterGenre:
		return m.genre
	default:
		return "All"
	}
}

// handleFilmsKey processes keyboard input for the films view.
func (m Model) handleFilmsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	films := m.visibleFilms()

	switch {
	case key.Matches(msg, m.keys.CycleFilter):
		m.cycleFilter()
		return m, nil

	case key.Matches(msg, m.keys.CycleGenre):
		m.cycleGenre()
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.modal = m.newFilmForm(nil)
		return m, nil
	}

	if len(films) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedFilm < len(films)-1 {
			m.selectedFilm++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedFilm > 0 {
			m.selectedFilm--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedFilm = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedFilm = len(films) - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedFilm = min(m.selectedFilm+m.contentHeight()/2, len(films)-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedFilm = max(m.selectedFilm-m.contentHeight()/2, 0)

	case key.Matches(msg, m.keys.ToggleFavorite):
		if f, ok := m.selectedFilmRecord(); ok {
			m.session.Films.ToggleFavorite(f.ID)
			m.syncSnapshots()
		}

	case key.Matches(msg, m.keys.Open):
		if f, ok := m.selectedFilmRecord(); ok {
			m.detailID = f.ID
			m.currentView = ViewFilmDetail
		}

	case key.Matches(msg, m.keys.Edit):
		if f, ok := m.selectedFilmRecord(); ok {
			m.modal = m.newFilmForm(&f)
		}

	case key.Matches(msg, m.keys.Delete):
		if f, ok := m.selectedFilmRecord(); ok {
			m.modal = m.confirmDeleteFilm(f)
		}
	}

	return m, nil
}

// openFilm resolves a textual film id and shows its detail or the not-found screen.
func (m *Model) openFilm(ref string) {
	if m.session != nil {
		if f, ok := m.session.Films.LookupFilm(ref); ok {
			m.detailID = f.ID
			m.missingRef = ""
			m.currentView = ViewFilmDetail
			return
		}
	}
	m.missingRef = strings.TrimSpace(ref)
	m.currentView = ViewNotFound
}

// newGotoFilmForm prompts for a film id.
func newGotoFilmForm() *formModal {
	fields := []formField{newField("Film id", "e.g. 3", "", true)}
	return newFormModal("Go to film", "", fields, func(values []string) (tea.Cmd, error) {
		ref := values[0]
		return func() tea.Msg { return gotoFilmMsg{ref: ref} }, nil
	})
}

// Film form field order.
const (
	fieldTitle = iota
	fieldYear
	fieldDirector
	fieldGenre
	fieldRating
	fieldDescription
	fieldPoster
)

// newFilmForm builds the add form, or the edit form when existing is set.
func (m Model) newFilmForm(existing *catalog.Film) *formModal {
	var f catalog.Film
	title := "Add film"
	if existing != nil {
		f = *existing
		title = fmt.Sprintf("Edit film #%d", f.ID)
	}
	year, rating := "", ""
	if existing != nil {
		year = strconv.Itoa(f.Year)
		rating = formatRating(f.Rating)
	}

	fields := []formField{
		newField("Title", "Film title", f.Title, true),
		newField("Year", "e.g. 1994", year, true),
		newField("Director", "Director name", f.Director, true),
		newField("Genre", "e.g. Drama", f.Genre, true),
		newField("Rating", "0 - 10", rating, true),
		newField("Description", "Short synopsis", f.Description, false),
		newField("Poster", "https://...", f.Poster, false),
	}
	fields[fieldGenre].input.ShowSuggestions = true
	fields[fieldGenre].input.SetSuggestions(mergeGenres(genreChoices, m.session.Films.Genres()))

	hint := ""
	if m.films.Offline {
		hint = "Offline: changes stay on this machine until the server is back."
	}

	films := m.session.Films
	return newFormModal(title, hint, fields, func(values []string) (tea.Cmd, error) {
		edited, err := parseFilmFields(values)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			var created catalog.Film
			return m.action(true, func(m *Model) {
				m.filterMode = FilterAll
				m.syncSnapshots()
				m.selectFilmID(created.ID)
			}, func(ctx context.Context) (string, error) {
				var err error
				created, err = films.Add(ctx, edited)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Added %q", created.Title) + offlineHint(films.Offline()), nil
			}), nil
		}

		patch := diffFilm(*existing, edited)
		if patch.IsEmpty() {
			return nil, nil
		}
		id := existing.ID
		return m.action(true, nil, func(ctx context.Context) (string, error) {
			updated, err := films.Update(ctx, id, patch)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved %q", updated.Title) + offlineHint(films.Offline()), nil
		}), nil
	})
}

// confirmDeleteFilm asks before deleting f.
func (m Model) confirmDeleteFilm(f catalog.Film) *confirmModal {
	films := m.session.Films
	return &confirmModal{
		title:  "Delete film",
		prompt: fmt.Sprintf("Delete %q (%s)?", f.Title, formatYear(f.Year)),
		onYes: func() tea.Cmd {
			return m.action(false, func(m *Model) {
				if m.currentView == ViewFilmDetail && m.detailID == f.ID {
					m.currentView = ViewFilms
				}
			}, func(ctx context.Context) (string, error) {
				if err := films.Delete(ctx, f.ID); err != nil {
					return "", err
				}
				return fmt.Sprintf("Deleted %q", f.Title) + offlineHint(films.Offline()), nil
			})
		},
	}
}

// parseFilmFields validates form values in field order.
func parseFilmFields(values []string) (catalog.Film, error) {
	year, err := strconv.Atoi(values[fieldYear])
	if err != nil || year < 1888 || year > 2100 {
		return catalog.Film{}, errors.New("year must be a number between 1888 and 2100")
	}
	rating, err := strconv.ParseFloat(values[fieldRating], 64)
	if err != nil || rating < 0 || rating > 10 {
		return catalog.Film{}, errors.New("rating must be a number between 0 and 10")
	}
	return catalog.Film{
		Title:       values[fieldTitle],
		Year:        year,
		Director:    values[fieldDirector],
		Genre:       values[fieldGenre],
		Rating:      rating,
		Description: values[fieldDescription],
		Poster:      values[fieldPoster],
	}, nil
}

// diffFilm returns a patch holding only the fields that changed.
func diffFilm(orig, edited catalog.Film) catalog.FilmPatch {
	var p catalog.FilmPatch
	if edited.Title != orig.Title {
		p.Title = &edited.Title
	}
	if edited.Year != orig.Year {
		p.Year = &edited.Year
	}
	if edited.Director != orig.Director {
		p.Director = &edited.Director
	}
	if edited.Genre != orig.Genre {
		p.Genre = &edited.Genre
	}
	if formatRating(edited.Rating) != formatRating(orig.Rating) {
		p.Rating = &edited.Rating
	}
	if edited.Description != orig.Description {
		p.Description = &edited.Description
	}
	if edited.Poster != orig.Poster {
		p.Poster = &edited.Poster
	}
	return p
}

func mergeGenres(base, extra []string) []string {
	out := append([]string(nil), base...)
	for _, g := range extra {
		if !containsString(out, g) {
			out = append(out, g)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// renderFilms renders the films view with split layout (table + detail).
func (m Model) renderFilms() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	films := m.visibleFilms()

	if len(m.films.Films) == 0 {
		msg := "No films"
		if m.films.Loading {
			msg = "Loading films..."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(msg+"  (n: add a film)"))
	}

	tableWidth := m.width * 45 / 100
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 35 / 100
	}
	detailWidth := m.width - tableWidth

	tableBg := m.theme.SurfaceAlt
	if m.focusedPane == 0 {
		tableBg = m.theme.FocusBg
	}
	table := m.renderFilmTable(films, tableWidth-2, height-2, tableBg)
	tablePane := m.renderTitledBox(m.filmsTitle(len(films)), table, tableWidth, height, m.focusedPane == 0)

	detailBg := m.theme.SurfaceAlt
	var detail string
	if f, ok := m.selectedFilmRecord(); ok {
		detail = m.renderFilmFields(f, detailWidth-4, detailBg)
	} else {
		detail = NewBgStyle(detailBg).Render("No films match this filter", styles.MutedText)
	}
	detailPane := m.renderTitledBox("Details", detail, detailWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// filmsTitle returns the table title with the filter indicator.
func (m Model) filmsTitle(visible int) string {
	total := len(m.films.Films)
	if m.filterMode == FilterAll {
		return fmt.Sprintf("Films (%d)", total)
	}
	return fmt.Sprintf("Films (%d/%d) %s", visible, total, m.filterLabel())
}

// renderFilmTable renders the rows that fit, scrolled to keep the cursor visible.
func (m Model) renderFilmTable(films []catalog.Film, width, rows int, bgColor string) string {
	if len(films) == 0 {
		return NewBgStyle(bgColor).Render("Nothing here yet", m.theme.Styles().MutedText)
	}
	start := 0
	if rows > 0 && m.selectedFilm >= rows {
		start = m.selectedFilm - rows + 1
	}
	end := len(films)
	if rows > 0 {
		end = min(start+rows, len(films))
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == m.selectedFilm
		bg := bgColor
		if selected {
			bg = m.theme.SelectionBg
		}
		row := m.formatFilmRow(films[i], width, bg, selected)
		lines = append(lines, lipgloss.NewStyle().Background(lipgloss.Color(bg)).Width(width).Render(row))
	}
	return strings.Join(lines, "\n")
}

// formatFilmRow formats "#ID Title (Year) · ★ 9.3 ♥".
func (m Model) formatFilmRow(f catalog.Film, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	idStr := fmt.Sprintf("#%d", f.ID)
	ratingStr := "★ " + formatRating(f.Rating)
	fav := ""
	if m.isFavorite(f.ID) {
		fav = " ♥"
	}
	titleWidth := max(width-len(idStr)-len([]rune(ratingStr))-len([]rune(fav))-10, 8)
	title := truncate(f.Title, titleWidth)
	if f.Year > 0 {
		title += fmt.Sprintf(" (%d)", f.Year)
	}

	idStyle, titleStyle, sepStyle, ratingStyle, favStyle := styles.MutedText, styles.Text, styles.FaintText, styles.Rating, styles.Favorite
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, titleStyle, sepStyle, ratingStyle, favStyle = selText, selText, selText, selText, selText
	}

	return bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(title, titleStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(ratingStr, ratingStyle) +
		bg.Render(fav, favStyle)
}

// isFavorite checks the snapshot so rendering takes no locks.
func (m Model) isFavorite(id int64) bool {
	for _, v := range m.films.Favorites {
		if v == id {
			return true
		}
	}
	return false
}
