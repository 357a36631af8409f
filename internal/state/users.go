package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/five82/marquee/internal/catalog"
)

// UserSnapshot is a copy of the user store state at a point in time.
type UserSnapshot struct {
	Users       []catalog.User
	CurrentUser *catalog.User // nil when logged out
	Loading     bool
	Error       string
	LastError   error
}

// LoggedIn reports whether a user is logged in.
func (s UserSnapshot) LoggedIn() bool {
	return s.CurrentUser != nil
}

// UserStore holds the user collection and the logged-in user. The current
// user is a copy; it is refreshed only by Update and cleared by Delete.
type UserStore struct {
	notifier

	api catalog.UserService

	mu      sync.RWMutex
	users   []catalog.User
	current *catalog.User
	loading bool
	errMsg  string
	lastErr error
}

// NewUserStore builds an empty store.
func NewUserStore(api catalog.UserService) *UserStore {
	return &UserStore{api: api}
}

// Snapshot returns a copy of the current state.
func (s *UserStore) Snapshot() UserSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := UserSnapshot{
		Users:     cloneUsers(s.users),
		Loading:   s.loading,
		Error:     s.errMsg,
		LastError: s.lastErr,
	}
	if s.current != nil {
		cur := *s.current
		snap.CurrentUser = &cur
	}
	return snap
}

// Users returns the users in store order.
func (s *UserStore) Users() []catalog.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.users)
}

// CurrentUser returns the logged-in user.
func (s *UserStore) CurrentUser() (catalog.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return catalog.User{}, false
	}
	return *s.current, true
}

// IsLoggedIn reports whether a user is logged in.
func (s *UserStore) IsLoggedIn() bool {
	_, ok := s.CurrentUser()
	return ok
}

// IsAdmin reports whether the logged-in user has the admin role.
func (s *UserStore) IsAdmin() bool {
	u, ok := s.CurrentUser()
	return ok && u.IsAdmin()
}

// UserByID returns the user with the given id.
func (s *UserStore) UserByID(id int64) (catalog.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return catalog.User{}, false
}

// Fetch reloads the user collection. On failure the previous users are kept
// and the error is recorded, not returned.
func (s *UserStore) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.clearErrorLocked()
	s.mu.Unlock()
	s.notify()

	users, err := s.api.ListUsers(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.setErrorLocked("Failed to fetch users: "+catalog.Message(err), err)
	} else {
		s.users = users
	}
	s.mu.Unlock()

	if err != nil {
		slog.Warn("user fetch failed", "error", err)
	}
	s.notify()
}

// Login matches username and email exactly against the loaded users. There is
// no server round trip and no secret involved, so Loading is left untouched.
func (s *UserStore) Login(username, email string) (catalog.User, error) {
	s.mu.Lock()
	for _, u := range s.users {
		if u.Username == username && u.Email == email {
			cur := u
			s.current = &cur
			s.clearErrorLocked()
			s.mu.Unlock()
			slog.Info("user logged in", "user_id", u.ID)
			s.notify()
			return u, nil
		}
	}
	err := &catalog.Error{Kind: catalog.KindInvalidCredentials, Op: "login"}
	s.setErrorLocked(err.Message(), err)
	s.mu.Unlock()
	s.notify()
	return catalog.User{}, err
}

// Logout clears the current user and any recorded error.
func (s *UserStore) Logout() {
	s.mu.Lock()
	s.logoutLocked()
	s.mu.Unlock()
	s.notify()
}

// Add creates a user on the server and appends it.
func (s *UserStore) Add(ctx context.Context, user catalog.User) (catalog.User, error) {
	created, err := s.api.CreateUser(ctx, user)
	if err != nil {
		s.fail("Failed to add user", err)
		return catalog.User{}, fmt.Errorf("add user: %w", err)
	}
	s.mu.Lock()
	s.users = append(s.users, created)
	s.mu.Unlock()
	s.notify()
	return created, nil
}

// Update patches a user on the server and replaces the local copy. Updating
// the logged-in user refreshes the current user as well.
func (s *UserStore) Update(ctx context.Context, id int64, patch catalog.UserPatch) (catalog.User, error) {
	updated, err := s.api.UpdateUser(ctx, id, patch)
	if err != nil {
		s.fail("Failed to update user", err)
		return catalog.User{}, fmt.Errorf("update user: %w", err)
	}
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = updated
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		cur := updated
		s.current = &cur
	}
	s.mu.Unlock()
	s.notify()
	return updated, nil
}

// Delete removes a user on the server and locally. Deleting the logged-in
// user logs out.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		s.fail("Failed to delete user", err)
		return fmt.Errorf("delete user: %w", err)
	}
	s.mu.Lock()
	out := make([]catalog.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	s.users = out
	if s.current != nil && s.current.ID == id {
		s.logoutLocked()
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearError drops the recorded error message.
func (s *UserStore) ClearError() {
	s.mu.Lock()
	s.clearErrorLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *UserStore) logoutLocked() {
	s.current = nil
	s.clearErrorLocked()
}

func (s *UserStore) fail(prefix string, err error) {
	s.mu.Lock()
	s.setErrorLocked(prefix+": "+catalog.Message(err), err)
	s.mu.Unlock()
	slog.Warn(prefix, "error", err)
	s.notify()
}

func (s *UserStore) setErrorLocked(msg string, err error) {
	s.errMsg = msg
	s.lastErr = err
}

func (s *UserStore) clearErrorLocked() {
	s.errMsg = ""
	s.lastErr = nil
}

func cloneUsers(users []catalog.User) []catalog.User {
	if len(users) == 0 {
		return nil
	}
	dup := make([]catalog.User, len(users))
	copy(dup, users)
	return dup
}
