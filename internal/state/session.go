package state

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/catalog"
)

// Session owns the stores for one program run and is handed to the UI.
type Session struct {
	Films *FilmStore
	Users *UserStore
}

// NewSession builds both stores on top of the given services.
func NewSession(films catalog.FilmService, users catalog.UserService, fallback []catalog.Film) *Session {
	return &Session{
		Films: NewFilmStore(films, fallback),
		Users: NewUserStore(users),
	}
}

// Refresh fetches films and users concurrently. The stores record their own
// failures, so the only error returned is the context's.
func (s *Session) Refresh(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Films.Fetch(gctx)
		return nil
	})
	g.Go(func() error {
		s.Users.Fetch(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Subscribe merges change signals from both stores into one channel. The
// returned function cancels both subscriptions.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	filmCh, cancelFilms := s.Films.Subscribe()
	userCh, cancelUsers := s.Users.Subscribe()
	out := make(chan struct{}, 1)
	done := make(chan struct{})

	forward := func() {
		select {
		case out <- struct{}{}:
		default:
		}
	}
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case _, ok := <-filmCh:
				if !ok {
					return
				}
				forward()
			case _, ok := <-userCh:
				if !ok {
					return
				}
				forward()
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(done)
			cancelFilms()
			cancelUsers()
		})
	}
}
