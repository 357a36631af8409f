package ui

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
)

// selectedUserRecord returns the user under the cursor.
func (m Model) selectedUserRecord() (catalog.User, bool) {
	if m.selectedUser < 0 || m.selectedUser >= len(m.users.Users) {
		return catalog.User{}, false
	}
	return m.users.Users[m.selectedUser], true
}

// isAdmin reports whether the logged-in user is an admin.
func (m Model) isAdmin() bool {
	return m.users.CurrentUser != nil && m.users.CurrentUser.IsAdmin()
}

// canEditUser allows admins to edit anyone and users to edit themselves.
func (m Model) canEditUser(u catalog.User) bool {
	cur := m.users.CurrentUser
	return cur != nil && (cur.IsAdmin() || cur.ID == u.ID)
}

// handleUsersKey processes keyboard input for the users view.
func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	n := len(m.users.Users)

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedUser < n-1 {
			m.selectedUser++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedUser > 0 {
			m.selectedUser--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedUser = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedUser = max(n-1, 0)

	case key.Matches(msg, m.keys.Login):
		m.modal = m.newLoginForm()

	case key.Matches(msg, m.keys.Logout):
		if m.users.LoggedIn() {
			name := m.users.CurrentUser.Username
			m.session.Users.Logout()
			m.syncSnapshots()
			m.notice = "Logged out " + name
		}

	case key.Matches(msg, m.keys.New):
		m.modal = m.newUserForm(nil)

	case key.Matches(msg, m.keys.Edit):
		u, ok := m.selectedUserRecord()
		if !ok {
			break
		}
		if !m.canEditUser(u) {
			m.notice = "Log in as this user or an admin to edit"
			break
		}
		m.modal = m.newUserForm(&u)

	case key.Matches(msg, m.keys.Delete):
		u, ok := m.selectedUserRecord()
		if !ok {
			break
		}
		if !m.isAdmin() {
			m.notice = "Only admins can delete users"
			break
		}
		m.modal = m.confirmDeleteUser(u)
	}
	return m, nil
}

// newLoginForm matches username and email against the loaded users.
func (m Model) newLoginForm() *formModal {
	fields := []formField{
		newField("Username", "username", "", true),
		newField("Email", "name@example.com", "", true),
	}
	users := m.session.Users
	return newFormModal("Log in", "", fields, func(values []string) (tea.Cmd, error) {
		username, email := values[0], values[1]
		return m.action(true, nil, func(context.Context) (string, error) {
			u, err := users.Login(username, email)
			if err != nil {
				return "", err
			}
			return "Logged in as " + u.Username, nil
		}), nil
	})
}

// User form field order.
const (
	fieldUsername = iota
	fieldEmail
	fieldRole
)

// newUserForm builds the add form, or the edit form when existing is set.
func (m Model) newUserForm(existing *catalog.User) *formModal {
	var u catalog.User
	title := "Add user"
	if existing != nil {
		u = *existing
		title = fmt.Sprintf("Edit user #%d", u.ID)
	}
	fields := []formField{
		newField("Username", "username", u.Username, true),
		newField("Email", "name@example.com", u.Email, true),
		newField("Role", "admin or blank", u.Role, false),
	}
	fields[fieldRole].input.ShowSuggestions = true
	fields[fieldRole].input.SetSuggestions([]string{"admin", "user"})

	users := m.session.Users
	return newFormModal(title, "", fields, func(values []string) (tea.Cmd, error) {
		edited, err := parseUserFields(values)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			return m.action(true, nil, func(ctx context.Context) (string, error) {
				created, err := users.Add(ctx, edited)
				if err != nil {
					return "", err
				}
				return "Added user " + created.Username, nil
			}), nil
		}

		patch := diffUser(*existing, edited)
		if patch.Username == nil && patch.Email == nil && patch.Role == nil {
			return nil, nil
		}
		id := existing.ID
		return m.action(true, nil, func(ctx context.Context) (string, error) {
			updated, err := users.Update(ctx, id, patch)
			if err != nil {
				return "", err
			}
			return "Saved user " + updated.Username, nil
		}), nil
	})
}

// confirmDeleteUser asks before deleting u.
func (m Model) confirmDeleteUser(u catalog.User) *confirmModal {
	users := m.session.Users
	prompt := fmt.Sprintf("Delete user %q?", u.Username)
	if m.users.CurrentUser != nil && m.users.CurrentUser.ID == u.ID {
		prompt += " You will be logged out."
	}
	return &confirmModal{
		title:  "Delete user",
		prompt: prompt,
		onYes: func() tea.Cmd {
			return m.action(false, nil, func(ctx context.Context) (string, error) {
				if err := users.Delete(ctx, u.ID); err != nil {
					return "", err
				}
				return "Deleted user " + u.Username, nil
			})
		},
	}
}

// parseUserFields validates form values in field order.
func parseUserFields(values []string) (catalog.User, error) {
	if strings.ContainsAny(values[fieldUsername], " \t") {
		return catalog.User{}, errors.New("username must not contain spaces")
	}
	if _, err := mail.ParseAddress(values[fieldEmail]); err != nil {
		return catalog.User{}, errors.New("email is not a valid address")
	}
	role := strings.ToLower(values[fieldRole])
	if role == "user" {
		role = ""
	}
	return catalog.User{
		Username: values[fieldUsername],
		Email:    values[fieldEmail],
		Role:     role,
	}, nil
}

// diffUser returns a patch holding only the fields that changed.
func diffUser(orig, edited catalog.User) catalog.UserPatch {
	var p catalog.UserPatch
	if edited.Username != orig.Username {
		p.Username = &edited.Username
	}
	if edited.Email != orig.Email {
		p.Email = &edited.Email
	}
	if edited.Role != orig.Role {
		p.Role = &edited.Role
	}
	return p
}

// renderUsers renders the user list with the session pane beside it.
func (m Model) renderUsers() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	listWidth := m.width * 55 / 100
	sideWidth := m.width - listWidth

	var list string
	switch {
	case len(m.users.Users) == 0 && m.users.Loading:
		list = NewBgStyle(m.theme.FocusBg).Render("Loading users...", styles.MutedText)
	case len(m.users.Users) == 0:
		list = NewBgStyle(m.theme.FocusBg).Render("No users", styles.MutedText)
	default:
		list = m.renderUserRows(listWidth-2, height-2)
	}
	listPane := m.renderTitledBox(fmt.Sprintf("Users (%d)", len(m.users.Users)), list, listWidth, height, true)
	sidePane := m.renderTitledBox("Session", m.renderSession(sideWidth-4), sideWidth, height, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, sidePane)
}

func (m Model) renderUserRows(width, rows int) string {
	styles := m.theme.Styles()
	start := 0
	if rows > 0 && m.selectedUser >= rows {
		start = m.selectedUser - rows + 1
	}
	end := len(m.users.Users)
	if rows > 0 {
		end = min(start+rows, end)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		u := m.users.Users[i]
		bgColor := m.theme.FocusBg
		nameStyle, mailStyle := styles.Text, styles.MutedText
		if i == m.selectedUser {
			bgColor = m.theme.SelectionBg
			sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
			nameStyle, mailStyle = sel, sel
		}
		bg := NewBgStyle(bgColor)

		marker := bg.Spaces(2)
		if m.users.CurrentUser != nil && m.users.CurrentUser.ID == u.ID {
			marker = bg.Render("●", styles.SuccessText) + bg.Space()
		}
		row := marker +
			bg.Render(fmt.Sprintf("#%d", u.ID), mailStyle) + bg.Space() +
			bg.Render(truncate(u.Username, 20), nameStyle.Bold(true)) + bg.Spaces(2) +
			bg.Render(truncate(u.Email, max(width-32, 8)), mailStyle)
		if u.IsAdmin() {
			row += bg.Space() + styles.Badge("admin").Render("ADMIN")
		}
		lines = append(lines, bg.FillLine(row, width))
	}
	return strings.Join(lines, "\n")
}

// renderSession describes the logged-in user.
func (m Model) renderSession(width int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)
	cur := m.users.CurrentUser
	if cur == nil {
		return strings.Join([]string{
			bg.Render("Not logged in", styles.MutedText),
			"",
			bg.Render("L", styles.AccentText) + bg.Render(": log in with username and email", styles.FaintText),
		}, "\n")
	}

	role := "user"
	if cur.IsAdmin() {
		role = "admin"
	}
	lines := []string{
		bg.Render(truncate(cur.Username, width), styles.Text.Bold(true)) + bg.Space() + styles.Badge(role).Render(strings.ToUpper(role)),
		bg.Render(truncate(cur.Email, width), styles.MutedText),
		"",
		bg.Render("O", styles.AccentText) + bg.Render(": log out", styles.FaintText),
	}
	if cur.IsAdmin() {
		lines = append(lines, bg.Render("d", styles.AccentText)+bg.Render(": delete selected user", styles.FaintText))
	}
	return strings.Join(lines, "\n")
}
