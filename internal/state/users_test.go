package state

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/marquee/internal/catalog"
)

func sampleUsers() []catalog.User {
	return []catalog.User{
		{ID: 1, Username: "admin", Email: "admin@example.com", Role: "admin"},
		{ID: 2, Username: "viewer", Email: "viewer@example.com", Role: "user"},
	}
}

func loadedUsers(t *testing.T) (*UserStore, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{users: sampleUsers()}
	s := NewUserStore(api)
	s.Fetch(context.Background())
	if got := len(s.Users()); got != 2 {
		t.Fatalf("setup fetch loaded %d users, want 2", got)
	}
	return s, api
}

func TestUserStore_Login(t *testing.T) {
	s, _ := loadedUsers(t)

	u, err := s.Login("admin", "admin@example.com")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if u.ID != 1 || !s.IsLoggedIn() || !s.IsAdmin() {
		t.Fatalf("Login = %#v, logged in=%v admin=%v; want admin logged in", u, s.IsLoggedIn(), s.IsAdmin())
	}

	s.Logout()
	if s.IsLoggedIn() {
		t.Fatalf("IsLoggedIn = true after Logout")
	}

	if _, err := s.Login("viewer", "viewer@example.com"); err != nil {
		t.Fatalf("Login(viewer) returned error: %v", err)
	}
	if s.IsAdmin() {
		t.Fatalf("IsAdmin = true for a non-admin user")
	}
}

func TestUserStore_LoginRejectsMismatch(t *testing.T) {
	cases := []struct{ username, email string }{
		{"wrong", "wrong@example.com"},
		{"admin", "viewer@example.com"},
		{"Admin", "admin@example.com"},
		{"", ""},
	}
	for _, tc := range cases {
		s, _ := loadedUsers(t)
		_, err := s.Login(tc.username, tc.email)
		if !errors.Is(err, catalog.ErrInvalidCredentials) {
			t.Fatalf("Login(%q, %q) error = %v, want ErrInvalidCredentials", tc.username, tc.email, err)
		}
		snap := s.Snapshot()
		if snap.CurrentUser != nil {
			t.Fatalf("CurrentUser = %#v, want nil", snap.CurrentUser)
		}
		if snap.Error != "Invalid credentials" {
			t.Fatalf("Error = %q, want Invalid credentials", snap.Error)
		}
	}
}

func TestUserStore_LoginIsLocal(t *testing.T) {
	s, api := loadedUsers(t)
	before := api.callCount()

	if _, err := s.Login("admin", "admin@example.com"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	_, _ = s.Login("wrong", "wrong@example.com")

	if got := api.callCount(); got != before {
		t.Fatalf("Login made %d API calls, want 0", got-before)
	}
	if s.Snapshot().Loading {
		t.Fatalf("Loading = true after Login")
	}
}

func TestUserStore_LogoutClearsError(t *testing.T) {
	s, _ := loadedUsers(t)
	_, _ = s.Login("nobody", "nobody@example.com")
	s.Logout()
	if snap := s.Snapshot(); snap.Error != "" || snap.LastError != nil {
		t.Fatalf("Logout left error %q / %v", snap.Error, snap.LastError)
	}
}

func TestUserStore_UpdateRefreshesCurrentUser(t *testing.T) {
	s, _ := loadedUsers(t)
	if _, err := s.Login("viewer", "viewer@example.com"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := s.Update(context.Background(), 2, catalog.UserPatch{Email: ptr("new@example.com")}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	cur, ok := s.CurrentUser()
	if !ok {
		t.Fatalf("CurrentUser missing after Update")
	}
	stored, _ := s.UserByID(2)
	if !reflect.DeepEqual(cur, stored) || cur.Email != "new@example.com" {
		t.Fatalf("CurrentUser = %#v, want %#v with new email", cur, stored)
	}

	// Updating somebody else leaves the current user alone.
	if _, err := s.Update(context.Background(), 1, catalog.UserPatch{Role: ptr("user")}); err != nil {
		t.Fatalf("Update(1) returned error: %v", err)
	}
	if again, _ := s.CurrentUser(); !reflect.DeepEqual(again, cur) {
		t.Fatalf("CurrentUser changed to %#v after updating another user", again)
	}
}

func TestUserStore_DeleteCurrentUserLogsOut(t *testing.T) {
	s, _ := loadedUsers(t)
	if _, err := s.Login("admin", "admin@example.com"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := s.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete(2) returned error: %v", err)
	}
	if !s.IsLoggedIn() {
		t.Fatalf("deleting another user logged out")
	}

	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete(1) returned error: %v", err)
	}
	if snap := s.Snapshot(); snap.CurrentUser != nil || len(snap.Users) != 0 {
		t.Fatalf("after deleting current user: current=%#v users=%d", snap.CurrentUser, len(snap.Users))
	}
}

func TestUserStore_Add(t *testing.T) {
	s, _ := loadedUsers(t)
	created, err := s.Add(context.Background(), catalog.User{Username: "new", Email: "new@example.com"})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if created.ID != 101 {
		t.Fatalf("Add id = %d, want 101", created.ID)
	}
	if got, ok := s.UserByID(101); !ok || got.Username != "new" {
		t.Fatalf("UserByID(101) = %#v, %v", got, ok)
	}
}

func TestUserStore_FailuresKeepUsers(t *testing.T) {
	s, api := loadedUsers(t)
	before := s.Users()
	api.setErr(errNetwork)
	ctx := context.Background()

	s.Fetch(ctx)
	snap := s.Snapshot()
	if !reflect.DeepEqual(snap.Users, before) {
		t.Fatalf("Users = %#v after failed fetch, want previous users", snap.Users)
	}
	if snap.Loading {
		t.Fatalf("Loading = true after fetch")
	}
	if snap.Error != "Failed to fetch users: Server unreachable" {
		t.Fatalf("Error = %q", snap.Error)
	}

	ops := []struct {
		name   string
		prefix string
		run    func() error
	}{
		{"add", "Failed to add user", func() error {
			_, err := s.Add(ctx, catalog.User{Username: "x"})
			return err
		}},
		{"update", "Failed to update user", func() error {
			_, err := s.Update(ctx, 1, catalog.UserPatch{Username: ptr("x")})
			return err
		}},
		{"delete", "Failed to delete user", func() error {
			return s.Delete(ctx, 1)
		}},
	}
	for _, op := range ops {
		if err := op.run(); !errors.Is(err, errNetwork) {
			t.Fatalf("%s error = %v, want %v", op.name, err, errNetwork)
		}
		if msg := s.Snapshot().Error; !strings.HasPrefix(msg, op.prefix) {
			t.Fatalf("%s Error = %q, want prefix %q", op.name, msg, op.prefix)
		}
	}
	if after := s.Users(); !reflect.DeepEqual(after, before) {
		t.Fatalf("Users changed after failed mutations: %#v", after)
	}

	s.ClearError()
	if msg := s.Snapshot().Error; msg != "" {
		t.Fatalf("ClearError left %q", msg)
	}
}

func TestUserStore_FetchClearsStaleError(t *testing.T) {
	s, api := loadedUsers(t)
	api.setErr(errStatus)
	s.Fetch(context.Background())
	if s.Snapshot().Error == "" {
		t.Fatalf("Error empty after failed fetch")
	}
	api.setErr(nil)
	s.Fetch(context.Background())
	if msg := s.Snapshot().Error; msg != "" {
		t.Fatalf("Error = %q after successful fetch, want empty", msg)
	}
}

func TestUserSnapshot_CurrentUserIsCopy(t *testing.T) {
	s, _ := loadedUsers(t)
	if _, err := s.Login("admin", "admin@example.com"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	snap := s.Snapshot()
	snap.CurrentUser.Username = "mutated"
	if cur, _ := s.CurrentUser(); cur.Username != "admin" {
		t.Fatalf("snapshot mutation leaked into store: %q", cur.Username)
	}
	if !snap.LoggedIn() {
		t.Fatalf("LoggedIn = false on a logged-in snapshot")
	}
}
