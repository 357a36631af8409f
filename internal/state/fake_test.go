package state

import (
	"context"
	"sync"

	"github.com/five82/marquee/internal/catalog"
)

// fakeAPI is an in-memory catalog that counts calls.
type fakeAPI struct {
	mu    sync.Mutex
	calls int
	err   error

	films  []catalog.Film
	users  []catalog.User
	nextID int64
}

func (f *fakeAPI) hit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeAPI) newID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return 100 + f.nextID
}

func (f *fakeAPI) ListFilms(ctx context.Context) ([]catalog.Film, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return append([]catalog.Film(nil), f.films...), nil
}

func (f *fakeAPI) CreateFilm(ctx context.Context, film catalog.Film) (catalog.Film, error) {
	if err := f.hit(); err != nil {
		return catalog.Film{}, err
	}
	film.ID = f.newID()
	return film, nil
}

func (f *fakeAPI) UpdateFilm(ctx context.Context, id int64, patch catalog.FilmPatch) (catalog.Film, error) {
	if err := f.hit(); err != nil {
		return catalog.Film{}, err
	}
	for _, film := range f.films {
		if film.ID == id {
			return patch.Apply(film), nil
		}
	}
	return patch.Apply(catalog.Film{ID: id}), nil
}

func (f *fakeAPI) DeleteFilm(ctx context.Context, id int64) error {
	return f.hit()
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]catalog.User, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return append([]catalog.User(nil), f.users...), nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, user catalog.User) (catalog.User, error) {
	if err := f.hit(); err != nil {
		return catalog.User{}, err
	}
	user.ID = f.newID()
	return user, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id int64, patch catalog.UserPatch) (catalog.User, error) {
	if err := f.hit(); err != nil {
		return catalog.User{}, err
	}
	out := catalog.User{ID: id}
	for _, u := range f.users {
		if u.ID == id {
			out = u
		}
	}
	if patch.Username != nil {
		out.Username = *patch.Username
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Role != nil {
		out.Role = *patch.Role
	}
	return out, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id int64) error {
	return f.hit()
}

var (
	errNetwork = &catalog.Error{Kind: catalog.KindNetworkFailure, Op: "GET /films"}
	errStatus  = &catalog.Error{Kind: catalog.KindHTTPStatus, Op: "GET /films", Status: 500}
)

func ptr[T any](v T) *T { return &v }
