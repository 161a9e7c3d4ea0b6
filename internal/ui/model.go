package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"robin/internal/domain"
	"robin/internal/logic"
	"robin/internal/pagination"
	"robin/internal/query"
	"robin/internal/ui/state"
	"robin/internal/ui/views"
)

// Pager displays long text outside the bubbletea screen
type Pager interface {
	Show(content string) error
}

// Options configure the UI model
type Options struct {
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Model represents the UI state
type Model struct {
	ctx            context.Context
	session        *logic.Session
	state          *state.AppState
	logger         *slog.Logger
	requestTimeout time.Duration

	keys     keyMap
	help     help.Model
	form     *dateForm
	result   viewport.Model
	renderer *views.Renderer
	pager    Pager
}

// NewModel creates a new UI model over session
func NewModel(ctx context.Context, session *logic.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}

	return &Model{
		ctx:            ctx,
		session:        session,
		state:          state.NewAppState(),
		logger:         opts.Logger,
		requestTimeout: opts.RequestTimeout,
		keys:           newKeyMap(),
		help:           help.New(),
		form:           newDateForm(),
		result:         viewport.New(80, 20),
		renderer:       views.NewRenderer(),
	}
}

// SetProgram binds the pager to the running program
func (m *Model) SetProgram(p *tea.Program) {
	m.pager = NewPagerOps(p)
}

// SetPager replaces the pager
func (m *Model) SetPager(p Pager) {
	m.pager = p
}

// Init starts loading both collections
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadRepositories(pagination.DirectionLoad),
		m.loadTeams(pagination.DirectionLoad),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		m.result.Width = msg.Width - 4
		m.result.Height = max(msg.Height-10, 5)
		return m, nil

	case tea.KeyMsg:
		if m.state.InPager {
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.session.Query.ModalOpen():
			return m, m.handleFormKey(msg)
		case m.session.Query.HasResult():
			return m, m.handleResultKey(msg)
		default:
			return m, m.handleBrowseKey(msg)
		}

	case reposLoadedMsg:
		m.state.SetLoading(domain.CollectionRepositories, false)
		if err := m.session.Repos.Resolve(msg.ticket, msg.page, msg.err); err != nil {
			return m, m.pageFailed(domain.CollectionRepositories, err)
		}
		m.session.ApplyRepositories()
		m.state.ClampCursors(len(m.session.Repos.Items()), len(m.session.Teams.Items()))
		return m, nil

	case teamsLoadedMsg:
		m.state.SetLoading(domain.CollectionTeams, false)
		if err := m.session.Teams.Resolve(msg.ticket, msg.page, msg.err); err != nil {
			return m, m.pageFailed(domain.CollectionTeams, err)
		}
		m.session.ApplyTeams()
		m.state.ClampCursors(len(m.session.Repos.Items()), len(m.session.Teams.Items()))
		return m, nil

	case pendingLoadedMsg:
		m.state.SetLoading(domain.CollectionPending, false)
		return m, m.runEffects(m.session.Query.PendingLoaded(msg.ticket, msg.page, msg.err))

	case statsLoadedMsg:
		m.state.SetLoading(domain.CollectionStats, false)
		cmd := m.runEffects(m.session.Query.StatsLoaded(msg.tag, msg.result, msg.err))
		if m.session.Query.HasResult() {
			m.result.SetContent(m.resultContent())
			m.result.GotoTop()
		}
		return m, cmd

	case notificationExpiredMsg:
		m.session.Query.Expire(msg.seq)
		return m, nil

	case pagerClosedMsg:
		m.state.InPager = false
		if msg.err != nil {
			m.logger.Error("pager failed", "err", msg.err)
		}
		return m, nil
	}

	if m.session.Query.ModalOpen() {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m *Model) pageFailed(c domain.Collection, err error) tea.Cmd {
	if errors.Is(err, pagination.ErrStale) {
		m.logger.Debug("discarding stale page", "collection", c)
		return nil
	}
	m.logger.Error("page request failed", "collection", c, "err", err)
	return m.runEffects(m.session.Query.NotifyError(c, err))
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	repos := m.session.Repos.Items()
	teams := m.session.Teams.Items()
	size := len(repos)
	if m.state.Focus == state.FocusTeams {
		size = len(teams)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Tab):
		m.state.ToggleFocus()
	case key.Matches(msg, m.keys.Up):
		m.state.MoveCursor(-1, size)
	case key.Matches(msg, m.keys.Down):
		m.state.MoveCursor(1, size)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent(repos, teams)
	case key.Matches(msg, m.keys.Next):
		return m.page(pagination.DirectionNext)
	case key.Matches(msg, m.keys.Prev):
		return m.page(pagination.DirectionPrev)
	case key.Matches(msg, m.keys.Query):
		return m.runEffects(m.session.Query.Open())
	case key.Matches(msg, m.keys.Pending):
		if m.state.Focus == state.FocusRepositories && m.state.RepoIndex < len(repos) {
			return m.runEffects(m.session.Query.ShowPending(repos[m.state.RepoIndex]))
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.session.Query.PendingVisible() {
			m.session.Query.HidePending()
		}
	case key.Matches(msg, m.keys.Help):
		m.state.ShowHelp = !m.state.ShowHelp
		m.help.ShowAll = m.state.ShowHelp
	}
	return nil
}

func (m *Model) toggleCurrent(repos []*domain.Repository, teams []*domain.Team) {
	if m.state.Focus == state.FocusTeams {
		if m.state.TeamIndex < len(teams) {
			m.session.TeamSelection.Toggle(teams[m.state.TeamIndex])
		}
		return
	}
	if m.state.RepoIndex < len(repos) {
		m.session.RepoSelection.Toggle(repos[m.state.RepoIndex])
	}
}

func (m *Model) page(dir pagination.Direction) tea.Cmd {
	if m.state.Focus == state.FocusTeams {
		return m.loadTeams(dir)
	}
	return m.loadRepositories(dir)
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	q := m.session.Query

	if key.Matches(msg, m.keys.Cancel) {
		return m.runEffects(q.Cancel())
	}
	// a submitted form only accepts cancel
	if q.Phase() == query.PhaseSubmitting {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		begin, end := m.form.values()
		q.SetBeginDate(begin)
		q.SetEndDate(end)
		return m.runEffects(q.Submit())
	case key.Matches(msg, m.keys.Switch):
		return m.form.switchField()
	case key.Matches(msg, m.keys.Today):
		m.form.setFocused(q.Today())
	case key.Matches(msg, m.keys.DayUp):
		m.form.shiftDay(1, q.Today())
	case key.Matches(msg, m.keys.DayDown):
		m.form.shiftDay(-1, q.Today())
	case key.Matches(msg, m.keys.Type):
		if q.StatsType() == domain.StatsPersonal {
			q.SetStatsType(domain.StatsTeam)
		} else {
			q.SetStatsType(domain.StatsPersonal)
		}
	default:
		return m.form.update(msg)
	}
	return nil
}

func (m *Model) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Cancel):
		m.session.Query.ReturnBack()
		m.result.SetContent("")
		return nil
	case key.Matches(msg, m.keys.Pager):
		if res := m.session.Query.Result(); res != nil {
			return m.openPager(prettyJSON(res.Raw))
		}
		return nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return cmd
}

func (m *Model) resultContent() string {
	res := m.session.Query.Result()
	if res == nil {
		return ""
	}
	if len(res.Patches.Results) == 0 {
		return prettyJSON(res.Raw)
	}
	return m.renderer.Styles().PatchTable(res.Patches.Results)
}

// View renders the UI
func (m *Model) View() string {
	if m.state.Width == 0 {
		return "Loading..."
	}

	q := m.session.Query
	s := views.ViewState{
		Width:        m.state.Width,
		Height:       m.state.Height,
		Repositories: m.repositoryList(),
		Teams:        m.teamList(),
		PendingShown: q.PendingVisible(),
		Pending:      q.Pending().Items(),
		PendingCount: q.Pending().Page().Count,
		HasResult:    q.HasResult(),
	}

	if q.HasResult() {
		s.Result = m.result.View()
		if res := q.Result(); res != nil {
			s.ResultCount = res.Patches.Count
		}
	}

	if q.ModalOpen() {
		s.Form = views.FormState{
			Open:       true,
			Submitting: q.Phase() == query.PhaseSubmitting,
			Category:   string(q.Category()),
			StatsType:  q.StatsType(),
			Begin:      m.form.begin.View(),
			End:        m.form.end.View(),
		}
	}

	if n, ok := q.Notification(); ok {
		s.Notification = &n
	}

	switch {
	case q.ModalOpen():
		s.Help = m.help.View(formKeys{m.keys})
	case q.HasResult():
		s.Help = m.help.View(resultKeys{m.keys})
	default:
		s.Help = m.help.View(browseKeys{m.keys})
	}

	return m.renderer.Render(s)
}

func (m *Model) repositoryList() views.ListState {
	page := m.session.Repos.Page()
	l := views.ListState{
		Title:   "Repositories",
		Count:   page.Count,
		HasNext: page.HasNext(),
		HasPrev: page.HasPrevious(),
		Focused: m.state.Focus == state.FocusRepositories,
		Loading: m.state.IsLoading(domain.CollectionRepositories),
		Cursor:  m.state.RepoIndex,
	}
	for _, r := range page.Results {
		l.Rows = append(l.Rows, views.Row{
			Text:    r.Name,
			Checked: r.Checked(),
			Label:   m.session.Query.PendingLabel(r.ID),
		})
	}
	return l
}

func (m *Model) teamList() views.ListState {
	page := m.session.Teams.Page()
	l := views.ListState{
		Title:   "Teams",
		Count:   page.Count,
		HasNext: page.HasNext(),
		HasPrev: page.HasPrevious(),
		Focused: m.state.Focus == state.FocusTeams,
		Loading: m.state.IsLoading(domain.CollectionTeams),
		Cursor:  m.state.TeamIndex,
	}
	for _, t := range page.Results {
		l.Rows = append(l.Rows, views.Row{Text: t.DisplayName(), Checked: t.Checked()})
	}
	return l
}
