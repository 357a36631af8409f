package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// formField is one labelled input of a form.
type formField struct {
	label    string
	required bool
	input    textinput.Model
}

func newField(label, placeholder, value string, required bool) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	ti.SetValue(value)
	return formField{label: label, required: required, input: ti}
}

// submitFunc validates the form values and returns the command that performs
// the action. A returned error keeps the form open and is shown under it.
type submitFunc func(values []string) (tea.Cmd, error)

// formModal is a vertical stack of text inputs with a submit action. It stays
// open while the action runs and after a failed one.
type formModal struct {
	title  string
	hint   string
	fields []formField
	focus  int
	submit submitFunc
	saving bool
	err    string
}

func newFormModal(title, hint string, fields []formField, submit submitFunc) *formModal {
	f := &formModal{title: title, hint: hint, fields: fields, submit: submit}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// Values returns the trimmed input values in field order.
func (f *formModal) Values() []string {
	out := make([]string, len(f.fields))
	for i, fld := range f.fields {
		out[i] = strings.TrimSpace(fld.input.Value())
	}
	return out
}

// Update implements Modal.
func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		f.saving = false
		if msg.err != nil {
			f.err = errorText(msg.err)
			return f, nil, false
		}
		return f, nil, true

	case tea.KeyMsg:
		if f.saving {
			return f, nil, false
		}
		switch {
		case key.Matches(msg, keys.Escape):
			return f, nil, true

		case key.Matches(msg, keys.Confirm):
			return f.trySubmit()

		case key.Matches(msg, keys.Tab), msg.Type == tea.KeyDown:
			f.moveFocus(1)
			return f, nil, false

		case key.Matches(msg, keys.ShiftTab), msg.Type == tea.KeyUp:
			f.moveFocus(-1)
			return f, nil, false
		}

		var cmd tea.Cmd
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
		return f, cmd, false
	}
	return f, nil, false
}

func (f *formModal) trySubmit() (Modal, tea.Cmd, bool) {
	values := f.Values()
	for i, fld := range f.fields {
		if fld.required && values[i] == "" {
			f.err = fld.label + " is required"
			f.setFocus(i)
			return f, nil, false
		}
	}
	cmd, err := f.submit(values)
	if err != nil {
		f.err = sentence(err.Error())
		return f, nil, false
	}
	f.err = ""
	if cmd == nil {
		return f, nil, true
	}
	f.saving = true
	return f, cmd, false
}

func (f *formModal) moveFocus(dir int) {
	n := len(f.fields)
	if n == 0 {
		return
	}
	f.setFocus((f.focus + dir + n) % n)
}

func (f *formModal) setFocus(i int) {
	f.fields[f.focus].input.Blur()
	f.focus = i
	f.fields[f.focus].input.Focus()
}

// View implements Modal.
func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labelWidth := 0
	for _, fld := range f.fields {
		labelWidth = max(labelWidth, len(fld.label)+2)
	}

	var b strings.Builder
	b.WriteString(modalTitle(styles, f.title, 50))
	for i, fld := range f.fields {
		label := fld.label
		if fld.required {
			label += "*"
		}
		label = padRight(label+":", labelWidth+1)
		if i == f.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(" ")
		b.WriteString(fld.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case f.saving:
		b.WriteString(styles.WarningText.Render("Saving..."))
		b.WriteString("\n")
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	if f.hint != "" {
		b.WriteString(styles.MutedText.Render(f.hint))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Cancel"))

	return placeModal(theme, width, height, b.String(), 64)
}

// confirmModal asks a yes/no question. Any key other than yes cancels.
type confirmModal struct {
	title  string
	prompt string
	onYes  func() tea.Cmd
}

// Update implements Modal.
func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	if key.Matches(k, keys.Yes) {
		return c, c.onYes(), true
	}
	return c, nil, true
}

// View implements Modal.
func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(modalTitle(styles, c.title, 40))
	b.WriteString(styles.Text.Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y: Confirm  •  any other key: Cancel"))
	return placeModal(theme, width, height, b.String(), 50)
}

// errorText renders an action error for display inside a modal.
func errorText(err error) string {
	switch catalog.KindOf(err) {
	case catalog.KindInvalidCredentials, catalog.KindNotFound:
		return catalog.Message(err)
	}
	return "Failed to save: " + catalog.Message(err)
}
