package state

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/marquee/internal/catalog"
)

const (
	topRatedLimit      = 5
	offlineFilmMessage = "Server unavailable. Using offline data."
)

// FilmSnapshot is a copy of the film store state at a point in time.
type FilmSnapshot struct {
	Films     []catalog.Film
	Favorites []int64
	Loading   bool
	Offline   bool
	Error     string // user-facing message, empty when clear
	LastError error  // cause behind Error
}

// FilmStore holds the film collection and its favorites. It serves an
// embedded fallback catalog once a fetch has failed and then mutates only
// locally until a later fetch succeeds.
type FilmStore struct {
	notifier

	api      catalog.FilmService
	fallback []catalog.Film

	mu        sync.RWMutex
	films     []catalog.Film
	favorites []int64
	loading   bool
	offline   bool
	errMsg    string
	lastErr   error
}

// NewFilmStore builds an empty store. A nil fallback uses catalog.Fallback().
func NewFilmStore(api catalog.FilmService, fallback []catalog.Film) *FilmStore {
	if fallback == nil {
		fallback = catalog.Fallback()
	}
	return &FilmStore{api: api, fallback: cloneFilms(fallback)}
}

// Snapshot returns a copy of the current state.
func (s *FilmStore) Snapshot() FilmSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilmSnapshot{
		Films:     cloneFilms(s.films),
		Favorites: append([]int64(nil), s.favorites...),
		Loading:   s.loading,
		Offline:   s.offline,
		Error:     s.errMsg,
		LastError: s.lastErr,
	}
}

// Films returns the films in store order.
func (s *FilmStore) Films() []catalog.Film {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFilms(s.films)
}

// Offline reports whether the store is serving fallback data.
func (s *FilmStore) Offline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offline
}

// FilmByID returns the first film with the given id.
func (s *FilmStore) FilmByID(id int64) (catalog.Film, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.films[i], true
	}
	return catalog.Film{}, false
}

// LookupFilm resolves a textual id such as a route parameter (" 3", "3",
// "3.0") to a film.
func (s *FilmStore) LookupFilm(ref string) (catalog.Film, bool) {
	id, ok := parseFilmRef(ref)
	if !ok {
		return catalog.Film{}, false
	}
	return s.FilmByID(id)
}

// FavoriteFilms returns the films marked as favorite, in store order.
// Favorites pointing at films that no longer exist are skipped.
func (s *FilmStore) FavoriteFilms() []catalog.Film {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.Film
	for _, f := range s.films {
		if containsID(s.favorites, f.ID) {
			out = append(out, f)
		}
	}
	return out
}

// FilmsByGenre returns the films whose genre matches exactly.
func (s *FilmStore) FilmsByGenre(genre string) []catalog.Film {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []catalog.Film
	for _, f := range s.films {
		if f.Genre == genre {
			out = append(out, f)
		}
	}
	return out
}

// Genres returns the distinct genres in first-seen order.
func (s *FilmStore) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, f := range s.films {
		if f.Genre == "" {
			continue
		}
		if _, ok := seen[f.Genre]; ok {
			continue
		}
		seen[f.Genre] = struct{}{}
		out = append(out, f.Genre)
	}
	return out
}

// TopRatedFilms returns up to five films by descending rating. Ties keep
// store order. The store's own ordering is left untouched.
func (s *FilmStore) TopRatedFilms() []catalog.Film {
	s.mu.RLock()
	films := cloneFilms(s.films)
	s.mu.RUnlock()

	sort.SliceStable(films, func(i, j int) bool {
		return films[i].Rating > films[j].Rating
	})
	if len(films) > topRatedLimit {
		films = films[:topRatedLimit]
	}
	return films
}

// Fetch reloads the whole collection. Failures are recorded, never returned:
// the store switches to the fallback catalog and goes offline.
func (s *FilmStore) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	films, err := s.api.ListFilms(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		if catalog.IsNetwork(err) {
			s.setErrorLocked(offlineFilmMessage, err)
		} else {
			s.setErrorLocked("Failed to load films: "+catalog.Message(err), err)
		}
		s.offline = true
		s.films = cloneFilms(s.fallback)
	} else {
		s.films = films
		s.offline = false
		s.clearErrorLocked()
	}
	s.mu.Unlock()

	if err != nil {
		slog.Warn("film fetch failed, serving fallback catalog", "error", err)
	}
	s.notify()
}

// Add stores a new film and returns it with its id. Offline, the id is one
// past the highest id held and nothing is sent.
func (s *FilmStore) Add(ctx context.Context, film catalog.Film) (catalog.Film, error) {
	s.mu.Lock()
	if s.offline {
		film.ID = s.maxIDLocked() + 1
		s.films = append(s.films, film)
		s.mu.Unlock()
		s.notify()
		return film, nil
	}
	s.mu.Unlock()

	created, err := s.api.CreateFilm(ctx, film)
	if err != nil {
		s.fail("Failed to add film", err)
		return catalog.Film{}, fmt.Errorf("add film: %w", err)
	}

	s.mu.Lock()
	s.films = append(s.films, created)
	s.mu.Unlock()
	s.notify()
	return created, nil
}

// Update applies patch to the film with the given id and returns the result.
func (s *FilmStore) Update(ctx context.Context, id int64, patch catalog.FilmPatch) (catalog.Film, error) {
	s.mu.Lock()
	if s.offline {
		i := s.indexOf(id)
		if i < 0 {
			err := &catalog.Error{Kind: catalog.KindNotFound, Op: fmt.Sprintf("film %d", id)}
			s.setErrorLocked("Film not found", err)
			s.mu.Unlock()
			s.notify()
			return catalog.Film{}, fmt.Errorf("update film: %w", err)
		}
		s.films[i] = patch.Apply(s.films[i])
		updated := s.films[i]
		s.mu.Unlock()
		s.notify()
		return updated, nil
	}
	s.mu.Unlock()

	updated, err := s.api.UpdateFilm(ctx, id, patch)
	if err != nil {
		s.fail("Failed to update film", err)
		return catalog.Film{}, fmt.Errorf("update film: %w", err)
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.films[i] = updated
	}
	s.mu.Unlock()
	s.notify()
	return updated, nil
}

// Delete removes the film with the given id.
func (s *FilmStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	if s.offline {
		s.films = removeFilm(s.films, id)
		s.mu.Unlock()
		s.notify()
		return nil
	}
	s.mu.Unlock()

	if err := s.api.DeleteFilm(ctx, id); err != nil {
		s.fail("Failed to delete film", err)
		return fmt.Errorf("delete film: %w", err)
	}

	s.mu.Lock()
	s.films = removeFilm(s.films, id)
	s.mu.Unlock()
	s.notify()
	return nil
}

// ToggleFavorite adds id to the favorites or removes it when present.
func (s *FilmStore) ToggleFavorite(id int64) {
	s.mu.Lock()
	if i := indexID(s.favorites, id); i >= 0 {
		s.favorites = append(s.favorites[:i:i], s.favorites[i+1:]...)
	} else {
		s.favorites = append(s.favorites, id)
	}
	s.mu.Unlock()
	s.notify()
}

// IsFavorite reports whether id is marked as favorite.
func (s *FilmStore) IsFavorite(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsID(s.favorites, id)
}

// ClearError drops the recorded error message.
func (s *FilmStore) ClearError() {
	s.mu.Lock()
	s.clearErrorLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *FilmStore) fail(prefix string, err error) {
	s.mu.Lock()
	s.setErrorLocked(prefix+": "+catalog.Message(err), err)
	s.mu.Unlock()
	slog.Warn(strings.ToLower(prefix), "error", err)
	s.notify()
}

func (s *FilmStore) setErrorLocked(msg string, err error) {
	s.errMsg = msg
	s.lastErr = err
}

func (s *FilmStore) clearErrorLocked() {
	s.errMsg = ""
	s.lastErr = nil
}

func (s *FilmStore) indexOf(id int64) int {
	for i, f := range s.films {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (s *FilmStore) maxIDLocked() int64 {
	var highest int64
	for _, f := range s.films {
		if f.ID > highest {
			highest = f.ID
		}
	}
	return highest
}

func parseFilmRef(ref string) (int64, bool) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func removeFilm(films []catalog.Film, id int64) []catalog.Film {
	out := make([]catalog.Film, 0, len(films))
	for _, f := range films {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

func cloneFilms(films []catalog.Film) []catalog.Film {
	if len(films) == 0 {
		return nil
	}
	dup := make([]catalog.Film, len(films))
	copy(dup, films)
	return dup
}

func indexID(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func containsID(ids []int64, id int64) bool {
	return indexID(ids, id) >= 0
}
