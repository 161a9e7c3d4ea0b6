// Package logic wires the collection stores, selections and the query
// orchestrator to a Remote, and drives them without a terminal.
package logic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"robin/internal/domain"
	"robin/internal/eventbus"
	"robin/internal/pagination"
	"robin/internal/query"
	"robin/internal/selection"
)

// ErrRejected wraps a danger notification raised while driving a query
var ErrRejected = errors.New("query rejected")

// ErrNotFound is returned when a lookup walks every page without a match
var ErrNotFound = errors.New("not found")

// Session holds everything one operator session works on
type Session struct {
	Repos         *pagination.Store[*domain.Repository]
	Teams         *pagination.Store[*domain.Team]
	RepoSelection *selection.Service[*domain.Repository]
	TeamSelection *selection.Service[*domain.Team]
	Query         *query.Orchestrator

	remote Remote
	bus    eventbus.EventBus
	logger *slog.Logger
}

// NewSession creates a session. opts.Bus and opts.Logger are shared with the
// selection services.
func NewSession(remote Remote, opts query.Options) *Session {
	if opts.Bus == nil {
		opts.Bus = eventbus.NullBus{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		Repos:         NewRepositoryStore(remote),
		Teams:         NewTeamStore(remote),
		RepoSelection: selection.NewService[*domain.Repository](domain.CollectionRepositories, opts.Bus),
		TeamSelection: selection.NewService[*domain.Team](domain.CollectionTeams, opts.Bus),
		remote:        remote,
		bus:           opts.Bus,
		logger:        opts.Logger,
	}
	s.Query = query.New(s.RepoSelection, s.TeamSelection, NewPendingStore(remote), opts)
	return s
}

// Remote returns the service the session talks to
func (s *Session) Remote() Remote { return s.remote }

// ApplyRepositories reconciles a freshly resolved repository page
func (s *Session) ApplyRepositories() []*domain.Repository {
	page := s.Repos.Page()
	items := s.RepoSelection.Reconcile(page.Results)
	s.bus.Publish(domain.PageLoadedEvent{Collection: domain.CollectionRepositories, Count: page.Count, Items: len(items)})
	return items
}

// ApplyTeams reconciles a freshly resolved team page
func (s *Session) ApplyTeams() []*domain.Team {
	page := s.Teams.Page()
	items := s.TeamSelection.Reconcile(page.Results)
	s.bus.Publish(domain.PageLoadedEvent{Collection: domain.CollectionTeams, Count: page.Count, Items: len(items)})
	return items
}

// LoadInitial fetches the first repository and team pages concurrently
func (s *Session) LoadInitial(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.Repos.Load(gctx, nil); err != nil {
			return fmt.Errorf("load repositories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.Teams.Load(gctx, nil); err != nil {
			return fmt.Errorf("load teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.ApplyRepositories()
	s.ApplyTeams()
	return nil
}

// Locate walks both collections concurrently from their current page until
// the repository and the team are found, and selects them
func (s *Session) Locate(ctx context.Context, repositoryID int, teamCode string) error {
	var repo *domain.Repository
	var team *domain.Team

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := findInStore(gctx, s.Repos, strconv.Itoa(repositoryID))
		if err != nil {
			return fmt.Errorf("repository %d: %w", repositoryID, err)
		}
		repo = r
		return nil
	})
	g.Go(func() error {
		t, err := findInStore(gctx, s.Teams, teamCode)
		if err != nil {
			return fmt.Errorf("team %q: %w", teamCode, err)
		}
		team = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.ApplyRepositories()
	s.ApplyTeams()
	if !repo.Checked() {
		s.RepoSelection.Toggle(repo)
	}
	if !team.Checked() {
		s.TeamSelection.Toggle(team)
	}
	return nil
}

func findInStore[T selection.Item](ctx context.Context, store *pagination.Store[T], key string) (T, error) {
	var zero T
	if !store.Loaded() {
		if _, err := store.Load(ctx, nil); err != nil {
			return zero, err
		}
	}
	for {
		for _, item := range store.Items() {
			if item.Key() == key {
				return item, nil
			}
		}
		if _, err := store.Next(ctx); err != nil {
			if errors.Is(err, pagination.ErrNoPage) {
				return zero, ErrNotFound
			}
			return zero, err
		}
	}
}

// Drive executes effects synchronously until none remain. A danger
// notification ends the run with ErrRejected.
func (s *Session) Drive(ctx context.Context, effects []query.Effect) error {
	var rejected error
	for len(effects) > 0 {
		e := effects[0]
		effects = effects[1:]

		switch e := e.(type) {
		case query.FetchStats:
			res, err := s.remote.ClosedPatchStats(ctx, e.Input)
			effects = append(effects, s.Query.StatsLoaded(e.Tag, res, err)...)
		case query.FetchPending:
			page, err := s.Query.Pending().Fetch(ctx, e.Ticket)
			effects = append(effects, s.Query.PendingLoaded(e.Ticket, page, err)...)
		case query.Notify:
			s.logger.Info("notification", "kind", e.Notification.Kind, "message", e.Notification.Message)
			if e.Notification.Kind == domain.NotifyDanger {
				rejected = fmt.Errorf("%w: %s", ErrRejected, e.Notification.Message)
			}
		}
	}
	return rejected
}

// QueryParams are the form values for a headless query
type QueryParams struct {
	BeginDate string
	EndDate   string
	StatsType domain.StatsType
}

// RunQuery opens the form, fills it and submits it using the current selections
func (s *Session) RunQuery(ctx context.Context, p QueryParams) (*domain.QueryResult, error) {
	if err := s.Drive(ctx, s.Query.Open()); err != nil {
		return nil, err
	}
	if p.BeginDate != "" {
		s.Query.SetBeginDate(p.BeginDate)
	}
	if p.EndDate != "" {
		s.Query.SetEndDate(p.EndDate)
	}
	if p.StatsType != 0 {
		s.Query.SetStatsType(p.StatsType)
	}

	if err := s.Drive(ctx, s.Query.Submit()); err != nil {
		_ = s.Drive(ctx, s.Query.Cancel())
		return nil, err
	}
	result := s.Query.Result()
	s.Query.ReturnBack()
	return result, nil
}

// LoadPending fetches the pending patches of one repository row id
func (s *Session) LoadPending(ctx context.Context, repoID int) (domain.Page[*domain.PendingPatch], error) {
	if err := s.Drive(ctx, s.Query.ShowPending(&domain.Repository{ID: repoID})); err != nil {
		return domain.Page[*domain.PendingPatch]{}, err
	}
	return s.Query.Pending().Page(), nil
}
