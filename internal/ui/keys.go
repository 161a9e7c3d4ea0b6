package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Tab     key.Binding
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Query   key.Binding
	Type    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Pending key.Binding
	Back    key.Binding
	Pager   key.Binding
	Help    key.Binding
	Quit    key.Binding

	Today   key.Binding
	DayUp   key.Binding
	DayDown key.Binding
	Switch  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Next:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
		Prev:    key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
		Query:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "query")),
		Type:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stats type")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Pending: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "pending patches")),
		Back:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
		Pager:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open raw result")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Today:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "today")),
		DayUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "+1 day")),
		DayDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "-1 day")),
		Switch:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	}
}

// browseKeys is the help.KeyMap shown while browsing
type browseKeys struct{ k keyMap }

func (b browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{b.k.Tab, b.k.Toggle, b.k.Query, b.k.Pending, b.k.Help, b.k.Quit}
}

func (b browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{b.k.Tab, b.k.Up, b.k.Down, b.k.Toggle},
		{b.k.Next, b.k.Prev, b.k.Pending, b.k.Cancel},
		{b.k.Query, b.k.Help, b.k.Quit},
	}
}

// formKeys is shown while the query form is open
type formKeys struct{ k keyMap }

func (f formKeys) ShortHelp() []key.Binding {
	return []key.Binding{f.k.Switch, f.k.Today, f.k.DayUp, f.k.DayDown, f.k.Type, f.k.Submit, f.k.Cancel}
}

func (f formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{f.k.Switch, f.k.Today, f.k.DayUp, f.k.DayDown},
		{f.k.Type, f.k.Submit, f.k.Cancel},
	}
}

// resultKeys is shown on the result view
type resultKeys struct{ k keyMap }

func (r resultKeys) ShortHelp() []key.Binding {
	return []key.Binding{r.k.Up, r.k.Down, r.k.Pager, r.k.Back, r.k.Quit}
}

func (r resultKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{r.k.Up, r.k.Down, r.k.Pager, r.k.Back, r.k.Quit}}
}
