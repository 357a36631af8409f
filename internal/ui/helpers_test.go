package ui

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/state"
)

// fakeCatalog serves both halves of the REST contract from memory.
type fakeCatalog struct {
	mu     sync.Mutex
	err    error
	films  []catalog.Film
	users  []catalog.User
	nextID int64
}

func (f *fakeCatalog) fail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeCatalog) id() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return 100 + f.nextID
}

func (f *fakeCatalog) ListFilms(context.Context) ([]catalog.Film, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return append([]catalog.Film(nil), f.films...), nil
}

func (f *fakeCatalog) CreateFilm(_ context.Context, film catalog.Film) (catalog.Film, error) {
	if err := f.fail(); err != nil {
		return catalog.Film{}, err
	}
	film.ID = f.id()
	return film, nil
}

func (f *fakeCatalog) UpdateFilm(_ context.Context, id int64, patch catalog.FilmPatch) (catalog.Film, error) {
	if err := f.fail(); err != nil {
		return catalog.Film{}, err
	}
	for _, film := range f.films {
		if film.ID == id {
			return patch.Apply(film), nil
		}
	}
	return catalog.Film{}, &catalog.Error{Kind: catalog.KindNotFound, Op: "PATCH /films"}
}

func (f *fakeCatalog) DeleteFilm(context.Context, int64) error { return f.fail() }

func (f *fakeCatalog) ListUsers(context.Context) ([]catalog.User, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return append([]catalog.User(nil), f.users...), nil
}

func (f *fakeCatalog) CreateUser(_ context.Context, u catalog.User) (catalog.User, error) {
	if err := f.fail(); err != nil {
		return catalog.User{}, err
	}
	u.ID = f.id()
	return u, nil
}

func (f *fakeCatalog) UpdateUser(_ context.Context, id int64, patch catalog.UserPatch) (catalog.User, error) {
	if err := f.fail(); err != nil {
		return catalog.User{}, err
	}
	for _, u := range f.users {
		if u.ID == id {
			if patch.Username != nil {
				u.Username = *patch.Username
			}
			if patch.Email != nil {
				u.Email = *patch.Email
			}
			if patch.Role != nil {
				u.Role = *patch.Role
			}
			return u, nil
		}
	}
	return catalog.User{}, &catalog.Error{Kind: catalog.KindNotFound, Op: "PATCH /users"}
}

func (f *fakeCatalog) DeleteUser(context.Context, int64) error { return f.fail() }

var errUnreachable = &catalog.Error{Kind: catalog.KindNetworkFailure, Op: "GET /films"}

func sampleFilms() []catalog.Film {
	return []catalog.Film{
		{ID: 1, Title: "Heat", Year: 1995, Director: "Michael Mann", Genre: "Crime", Rating: 8.3},
		{ID: 2, Title: "Alien", Year: 1979, Director: "Ridley Scott", Genre: "Horror", Rating: 8.5},
		{ID: 3, Title: "Ran", Year: 1985, Director: "Akira Kurosawa", Genre: "Drama", Rating: 8.2},
		{ID: 4, Title: "Seven Samurai", Year: 1954, Director: "Akira Kurosawa", Genre: "Drama", Rating: 8.6},
	}
}

func sampleUsers() []catalog.User {
	return []catalog.User{
		{ID: 1, Username: "ada", Email: "ada@example.com", Role: "admin"},
		{ID: 2, Username: "bob", Email: "bob@example.com"},
	}
}

// newTestModel builds a sized model over a refreshed session.
func newTestModel(t *testing.T, api *fakeCatalog, fallback []catalog.Film) Model {
	t.Helper()
	session := state.NewSession(api, api, fallback)
	if err := session.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	m := New(Options{
		Context:   context.Background(),
		Session:   session,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		APIURL:    "http://localhost:3000",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func onlineModel(t *testing.T) Model {
	t.Helper()
	return newTestModel(t, &fakeCatalog{films: sampleFilms(), users: sampleUsers()}, nil)
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends one key and returns the updated model and command.
func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// typeText feeds each rune to the model.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func filmIDs(films []catalog.Film) []int64 {
	ids := make([]int64, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	return ids
}
