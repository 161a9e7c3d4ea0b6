package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"robin/internal/domain"
	"robin/internal/pagination"
	"robin/internal/query"
)

// loadRepositories issues a repository page request in direction dir
func (m *Model) loadRepositories(dir pagination.Direction) tea.Cmd {
	ticket, ok := m.session.Repos.Begin(dir, nil)
	if !ok {
		return nil
	}
	m.state.SetLoading(domain.CollectionRepositories, true)
	store := m.session.Repos
	ctx, timeout := m.ctx, m.requestTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		page, err := store.Fetch(ctx, ticket)
		return reposLoadedMsg{ticket: ticket, page: page, err: err}
	}
}

// loadTeams issues a team page request in direction dir
func (m *Model) loadTeams(dir pagination.Direction) tea.Cmd {
	ticket, ok := m.session.Teams.Begin(dir, nil)
	if !ok {
		return nil
	}
	m.state.SetLoading(domain.CollectionTeams, true)
	store := m.session.Teams
	ctx, timeout := m.ctx, m.requestTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		page, err := store.Fetch(ctx, ticket)
		return teamsLoadedMsg{ticket: ticket, page: page, err: err}
	}
}

// runEffects turns orchestrator effects into commands
func (m *Model) runEffects(effects []query.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		if cmd := m.runEffect(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) runEffect(e query.Effect) tea.Cmd {
	ctx, timeout := m.ctx, m.requestTimeout

	switch e := e.(type) {
	case query.ShowModal:
		return m.form.reset(m.session.Query.BeginDate(), m.session.Query.EndDate())

	case query.HideModal:
		m.form.begin.Blur()
		m.form.end.Blur()
		return nil

	case query.Notify:
		seq := e.Seq
		return tea.Tick(e.After, func(time.Time) tea.Msg {
			return notificationExpiredMsg{seq: seq}
		})

	case query.FetchStats:
		m.state.SetLoading(domain.CollectionStats, true)
		remote := m.session.Remote()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			res, err := remote.ClosedPatchStats(ctx, e.Input)
			return statsLoadedMsg{tag: e.Tag, result: res, err: err}
		}

	case query.FetchPending:
		m.state.SetLoading(domain.CollectionPending, true)
		store := m.session.Query.Pending()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			page, err := store.Fetch(ctx, e.Ticket)
			return pendingLoadedMsg{ticket: e.Ticket, page: page, err: err}
		}
	}
	return nil
}

// openPager shows content in the external pager
func (m *Model) openPager(content string) tea.Cmd {
	if m.pager == nil {
		return nil
	}
	m.state.InPager = true
	pager := m.pager
	return func() tea.Msg {
		return pagerClosedMsg{err: pager.Show(content)}
	}
}
