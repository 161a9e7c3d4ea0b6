package state

import (
	"robin/internal/domain"
)

// Focus is the list receiving navigation keys
type Focus int

const (
	FocusRepositories Focus = iota
	FocusTeams
)

// FormField is the focused input of the query form
type FormField int

const (
	FieldBegin FormField = iota
	FieldEnd
)

// AppState contains the UI state that is not owned by the stores or the
// query orchestrator
type AppState struct {
	Focus     Focus
	RepoIndex int // cursor within the repository page
	TeamIndex int // cursor within the team page
	FormField FormField

	Loading map[domain.Collection]bool // requests in flight per collection

	ShowHelp bool
	InPager  bool

	Width  int
	Height int
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Loading: make(map[domain.Collection]bool),
	}
}

// ToggleFocus switches between the two lists
func (s *AppState) ToggleFocus() {
	if s.Focus == FocusRepositories {
		s.Focus = FocusTeams
	} else {
		s.Focus = FocusRepositories
	}
}

// MoveCursor moves the focused list cursor by delta within [0, size)
func (s *AppState) MoveCursor(delta, size int) {
	idx := &s.RepoIndex
	if s.Focus == FocusTeams {
		idx = &s.TeamIndex
	}
	*idx = clamp(*idx+delta, size)
}

// ClampCursors keeps both cursors inside freshly loaded pages
func (s *AppState) ClampCursors(repos, teams int) {
	s.RepoIndex = clamp(s.RepoIndex, repos)
	s.TeamIndex = clamp(s.TeamIndex, teams)
}

// SetLoading marks a collection as loading or idle
func (s *AppState) SetLoading(c domain.Collection, loading bool) {
	if loading {
		s.Loading[c] = true
	} else {
		delete(s.Loading, c)
	}
}

// IsLoading reports whether a request for c is in flight
func (s *AppState) IsLoading(c domain.Collection) bool {
	return s.Loading[c]
}

func clamp(i, size int) int {
	if size <= 0 || i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
