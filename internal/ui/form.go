package ui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"robin/internal/domain"
	"robin/internal/ui/state"
)

var errDateChars = errors.New("only digits and dashes")

// dateForm holds the two date inputs of the query form
type dateForm struct {
	begin textinput.Model
	end   textinput.Model
	field state.FormField
}

func newDateInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = len(domain.DateLayout)
	ti.Width = len(domain.DateLayout) + 1
	ti.Prompt = ""
	ti.Validate = func(s string) error {
		for _, r := range s {
			if (r < '0' || r > '9') && r != '-' {
				return errDateChars
			}
		}
		return nil
	}
	return ti
}

func newDateForm() *dateForm {
	return &dateForm{
		begin: newDateInput("YYYY-MM-DD"),
		end:   newDateInput("YYYY-MM-DD"),
	}
}

// reset loads the current values and focuses the first field
func (f *dateForm) reset(begin, end string) tea.Cmd {
	f.begin.SetValue(begin)
	f.end.SetValue(end)
	f.field = state.FieldBegin
	f.end.Blur()
	return f.begin.Focus()
}

func (f *dateForm) focused() *textinput.Model {
	if f.field == state.FieldEnd {
		return &f.end
	}
	return &f.begin
}

// switchField moves focus to the other date input
func (f *dateForm) switchField() tea.Cmd {
	f.focused().Blur()
	if f.field == state.FieldBegin {
		f.field = state.FieldEnd
	} else {
		f.field = state.FieldBegin
	}
	return f.focused().Focus()
}

// setFocused replaces the focused field's value
func (f *dateForm) setFocused(v string) {
	in := f.focused()
	in.SetValue(v)
	in.CursorEnd()
}

// shiftDay moves the focused date by days, starting from today when the field
// does not hold a valid date
func (f *dateForm) shiftDay(days int, today string) {
	base, err := time.Parse(domain.DateLayout, f.focused().Value())
	if err != nil {
		base, _ = time.Parse(domain.DateLayout, today)
	}
	f.setFocused(base.AddDate(0, 0, days).Format(domain.DateLayout))
}

func (f *dateForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.field == state.FieldEnd {
		f.end, cmd = f.end.Update(msg)
	} else {
		f.begin, cmd = f.begin.Update(msg)
	}
	return cmd
}

func (f *dateForm) values() (begin, end string) {
	return f.begin.Value(), f.end.Value()
}
