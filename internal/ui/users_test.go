package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func usersView(t *testing.T) Model {
	t.Helper()
	m, _ := press(t, onlineModel(t), runeKey("2"))
	if m.currentView != ViewUsers {
		t.Fatalf("view = %v, want users", m.currentView)
	}
	return m
}

func login(t *testing.T, m Model, username, email string) Model {
	t.Helper()
	m, _ = press(t, m, runeKey("L"))
	form, ok := m.modal.(*formModal)
	if !ok {
		t.Fatal("login form did not open")
	}
	form.fields[0].input.SetValue(username)
	form.fields[1].input.SetValue(email)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return deliver(t, m, cmd)
}

func TestLoginAndLogout(t *testing.T) {
	m := login(t, usersView(t), "bob", "bob@example.com")
	if m.modal != nil {
		t.Fatal("login form still open")
	}
	if !m.users.LoggedIn() || m.users.CurrentUser.Username != "bob" {
		t.Fatalf("current user = %+v, want bob", m.users.CurrentUser)
	}
	if m.notice != "Logged in as bob" {
		t.Fatalf("notice = %q", m.notice)
	}
	if !strings.Contains(m.renderHeader(), "bob") {
		t.Fatal("header does not show the current user")
	}

	m, _ = press(t, m, runeKey("O"))
	if m.users.LoggedIn() {
		t.Fatal("still logged in after logout")
	}
	if m.notice != "Logged out bob" {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestLoginMismatchKeepsFormOpen(t *testing.T) {
	m := login(t, usersView(t), "bob", "ada@example.com")
	form, ok := m.modal.(*formModal)
	if !ok {
		t.Fatal("login form closed on bad credentials")
	}
	if form.err != "Invalid credentials" {
		t.Fatalf("form error = %q, want %q", form.err, "Invalid credentials")
	}
	if m.users.LoggedIn() {
		t.Fatal("logged in with mismatched email")
	}
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	m := usersView(t)
	m, _ = press(t, m, runeKey("d"))
	if m.modal != nil {
		t.Fatal("delete prompt opened while logged out")
	}
	if m.notice != "Only admins can delete users" {
		t.Fatalf("notice = %q", m.notice)
	}

	m = login(t, m, "bob", "bob@example.com")
	m, _ = press(t, m, runeKey("d"))
	if m.modal != nil {
		t.Fatal("delete prompt opened for a non-admin")
	}
}

func TestAdminDeletesUser(t *testing.T) {
	m := login(t, usersView(t), "ada", "ada@example.com")
	if !m.isAdmin() {
		t.Fatal("ada should be admin")
	}
	if !strings.Contains(m.renderHeader(), "ADMIN") {
		t.Fatal("header missing admin badge")
	}

	m, _ = press(t, m, runeKey("j"))
	m, _ = press(t, m, runeKey("d"))
	m, cmd := press(t, m, runeKey("y"))
	m = deliver(t, m, cmd)

	if len(m.users.Users) != 1 || m.users.Users[0].Username != "ada" {
		t.Fatalf("users = %+v, want only ada", m.users.Users)
	}
	if m.notice != "Deleted user bob" {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestAdminDeletingSelfLogsOut(t *testing.T) {
	m := login(t, usersView(t), "ada", "ada@example.com")
	m, _ = press(t, m, runeKey("d"))
	if c, ok := m.modal.(*confirmModal); !ok || !strings.Contains(c.prompt, "logged out") {
		t.Fatal("self-delete prompt should warn about logout")
	}
	m, cmd := press(t, m, runeKey("y"))
	m = deliver(t, m, cmd)
	if m.users.LoggedIn() {
		t.Fatal("still logged in after deleting self")
	}
}

func TestAddUser(t *testing.T) {
	m := usersView(t)
	m, _ = press(t, m, runeKey("n"))
	form := m.modal.(*formModal)
	form.fields[fieldUsername].input.SetValue("cy")
	form.fields[fieldEmail].input.SetValue("not-an-email")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || form.err != "Email is not a valid address" {
		t.Fatalf("form error = %q, want email validation", form.err)
	}

	form.fields[fieldEmail].input.SetValue("cy@example.com")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, cmd)
	if len(m.users.Users) != 3 || m.users.Users[2].ID != 101 {
		t.Fatalf("users = %+v, want cy appended with id 101", m.users.Users)
	}
}

func TestEditUserPermissions(t *testing.T) {
	m := usersView(t)
	m, _ = press(t, m, runeKey("e"))
	if m.modal != nil {
		t.Fatal("edit opened while logged out")
	}

	m = login(t, m, "bob", "bob@example.com")
	m.selectedUser = 0
	m, _ = press(t, m, runeKey("e"))
	if m.modal != nil {
		t.Fatal("bob may not edit ada")
	}

	m.selectedUser = 1
	m, _ = press(t, m, runeKey("e"))
	form, ok := m.modal.(*formModal)
	if !ok {
		t.Fatal("bob should be able to edit their own profile")
	}
	form.fields[fieldEmail].input.SetValue("robert@example.com")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = deliver(t, m, cmd)
	if m.users.CurrentUser.Email != "robert@example.com" {
		t.Fatalf("current user email = %q, want the updated one", m.users.CurrentUser.Email)
	}
}

func TestParseUserFieldsRole(t *testing.T) {
	u, err := parseUserFields([]string{"cy", "cy@example.com", "User"})
	if err != nil {
		t.Fatalf("parseUserFields() error = %v", err)
	}
	if u.Role != "" {
		t.Fatalf("Role = %q, want empty for plain users", u.Role)
	}
	u, _ = parseUserFields([]string{"cy", "cy@example.com", "Admin"})
	if !u.IsAdmin() {
		t.Fatal("Admin role not recognised")
	}
	if _, err := parseUserFields([]string{"c y", "cy@example.com", ""}); err == nil {
		t.Fatal("username with a space accepted")
	}
}
