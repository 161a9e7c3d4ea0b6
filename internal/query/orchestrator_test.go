package query

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robin/internal/domain"
	"robin/internal/pagination"
	"robin/internal/selection"
)

var fixedNow = time.Date(2024, 3, 9, 15, 4, 5, 0, time.Local)

type harness struct {
	repos   *selection.Service[*domain.Repository]
	teams   *selection.Service[*domain.Team]
	pending *pagination.Store[*domain.PendingPatch]
	orch    *Orchestrator
	fetched []url.Values
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repos: selection.NewService[*domain.Repository](domain.CollectionRepositories, nil),
		teams: selection.NewService[*domain.Team](domain.CollectionTeams, nil),
	}
	h.pending = pagination.New[*domain.PendingPatch](func(_ context.Context, _ string, params url.Values) (domain.Page[*domain.PendingPatch], error) {
		h.fetched = append(h.fetched, params)
		return domain.Page[*domain.PendingPatch]{Count: 1, Results: []*domain.PendingPatch{{PatchNumber: 12}}}, nil
	})
	h.orch = New(h.repos, h.teams, h.pending, Options{Now: func() time.Time { return fixedNow }})
	return h
}

func (h *harness) selectBoth() {
	repo := &domain.Repository{ID: 70, RepositoryID: 7}
	team := &domain.Team{TeamCode: "X", Members: []string{"alice", "bob"}}
	h.repos.Reconcile([]*domain.Repository{repo})
	h.teams.Reconcile([]*domain.Team{team})
	h.repos.Toggle(repo)
	h.teams.Toggle(team)
}

func effectsOf[E Effect](effects []Effect) []E {
	var out []E
	for _, e := range effects {
		if v, ok := e.(E); ok {
			out = append(out, v)
		}
	}
	return out
}

func requireDanger(t *testing.T, effects []Effect, message string) {
	t.Helper()
	notes := effectsOf[Notify](effects)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotifyDanger, notes[0].Notification.Kind)
	assert.Equal(t, message, notes[0].Notification.Message)
	assert.Empty(t, effectsOf[FetchStats](effects), "no request on rejection")
}

func TestDatesSeededWithToday(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "2024-03-09", h.orch.BeginDate())
	assert.Equal(t, "2024-03-09", h.orch.EndDate())
}

func TestOpenRequiresBothSelections(t *testing.T) {
	h := newHarness(t)
	team := &domain.Team{TeamCode: "X"}
	h.teams.Reconcile([]*domain.Team{team})
	h.teams.Toggle(team)

	effects := h.orch.Open()

	requireDanger(t, effects, MsgSelectionRequired)
	assert.Empty(t, effectsOf[ShowModal](effects))
	assert.Equal(t, PhaseBrowsing, h.orch.Phase())
}

func TestOpenResetsStatsType(t *testing.T) {
	h := newHarness(t)
	h.selectBoth()
	h.orch.SetStatsType(domain.StatsTeam)

	effects := h.orch.Open()

	assert.Equal(t, []Effect{ShowModal{}}, effects)
	assert.Equal(t, PhaseAwaitingInput, h.orch.Phase())
	assert.Equal(t, domain.StatsPersonal, h.orch.StatsType())
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name       string
		begin, end string
		message    string
	}{
		{"missing begin", "", "2024-01-01", MsgDatesRequired},
		{"missing end", "2024-01-01", "", MsgDatesRequired},
		{"bad format", "01/02/2024", "2024-01-03", MsgDateFormat},
		{"begin after end", "2024-02-01", "2024-01-01", MsgDateOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.selectBoth()
			h.orch.Open()
			h.orch.SetBeginDate(tt.begin)
			h.orch.SetEndDate(tt.end)

			effects := h.orch.Submit()

			requireDanger(t, effects, tt.message)
			assert.Empty(t, effectsOf[HideModal](effects), "modal stays open")
			assert.Equal(t, PhaseAwaitingInput, h.orch.Phase())
		})
	}
}

func TestSubmitBuildsQueryAndStoresResult(t *testing.T) {
	h := newHarness(t)
	h.selectBoth()
	h.orch.Open()
	h.orch.SetBeginDate("2024-01-01")
	h.orch.SetEndDate("2024-01-31")

	effects := h.orch.Submit()
	fetches := effectsOf[FetchStats](effects)
	require.Len(t, fetches, 1)
	assert.Equal(t, domain.QueryInput{
		Category:     domain.CategoryClosedPatchs,
		RepositoryID: 7,
		TeamCode:     "X",
		MemberIDs:    []string{"alice", "bob"},
		StatsType:    domain.StatsPersonal,
		BeginDate:    "2024-01-01",
		EndDate:      "2024-01-31",
	}, fetches[0].Input)
	assert.Equal(t, PhaseSubmitting, h.orch.Phase())

	result := &domain.QueryResult{Raw: []byte(`{"count":0,"results":[]}`)}
	effects = h.orch.StatsLoaded(fetches[0].Tag, result, nil)

	assert.True(t, h.orch.HasResult())
	assert.Same(t, result, h.orch.Result())
	assert.Equal(t, PhaseResulted, h.orch.Phase())
	require.Len(t, effects, 2)
	assert.Equal(t, HideModal{}, effects[0])
	note := effects[1].(Notify)
	assert.Equal(t, domain.NotifySuccess, note.Notification.Kind)
	assert.Equal(t, MsgQuerySuccess, note.Notification.Message)
	assert.Equal(t, fixedNow.Add(DefaultNotificationTimeout), note.Notification.ExpiresAt)
}

func TestSubmitUnsupportedCategory(t *testing.T) {
	h := newHarness(t)
	h.selectBoth()
	h.orch.Open()
	h.orch.SetCategory("openPatchs")

	effects := h.orch.Submit()

	requireDanger(t, effects, "Unsupported query category: openPatchs")
	assert.Equal(t, PhaseAwaitingInput, h.orch.Phase())
}

func TestStatsFailureKeepsModalOpen(t *testing.T) {
	h := newHarness(t)
	h.selectBoth()
	h.orch.Open()
	fetch := effectsOf[FetchStats](h.orch.Submit())[0]

	effects := h.orch.StatsLoaded(fetch.Tag, nil, errors.New("connection refused"))

	requireDanger(t, effects, "Query failed: connection refused")
	assert.False(t, h.orch.HasResult())
	assert.Equal(t, PhaseAwaitingInput, h.orch.Phase())
	assert.True(t, h.orch.ModalOpen())
}

func TestStaleStatsResponseIgnored(t *testing.T) {
	h := newHarness(t)
	h.selectBoth()
	h.orch.Open()
	fetch := effectsOf[FetchStats](h.orch.Submit())[0]
	h.orch.Cancel()

	effects := h.orch.StatsLoaded(fetch.Tag, &domain.QueryResult{}, nil)

	assert.Nil(t, effects)
	assert.False(t, h.orch.HasResult())
	assert.Equal(t, PhaseBrowsing, h.orch.Phase())
}

func TestReturnBackKeepsSelections(t *testing.T) {
	h := newHarness(t)
	h.selectBoth()
	h.orch.Open()
	fetch := effectsOf[FetchStats](h.orch.Submit())[0]
	h.orch.StatsLoaded(fetch.Tag, &domain.QueryResult{}, nil)

	h.orch.ReturnBack()

	assert.False(t, h.orch.HasResult())
	assert.Nil(t, h.orch.Result())
	assert.Equal(t, PhaseBrowsing, h.orch.Phase())
	assert.True(t, h.repos.HasSelection())
	assert.True(t, h.teams.HasSelection())
}

func TestNewerNotificationSurvivesOlderExpiry(t *testing.T) {
	h := newHarness(t)
	first := effectsOf[Notify](h.orch.Open())[0]
	second := effectsOf[Notify](h.orch.Open())[0]

	assert.False(t, h.orch.Expire(first.Seq))
	_, visible := h.orch.Notification()
	assert.True(t, visible)

	assert.True(t, h.orch.Expire(second.Seq))
	_, visible = h.orch.Notification()
	assert.False(t, visible)
}

func runPending(t *testing.T, h *harness, repo *domain.Repository) {
	t.Helper()
	effects := h.orch.ShowPending(repo)
	require.Len(t, effects, 1)
	fetch := effects[0].(FetchPending)
	page, err := h.pending.Fetch(context.Background(), fetch.Ticket)
	h.orch.PendingLoaded(fetch.Ticket, page, err)
}

func TestShowPendingTwiceRestoresVisibility(t *testing.T) {
	h := newHarness(t)
	repo := &domain.Repository{ID: 70, RepositoryID: 7}

	runPending(t, h, repo)
	assert.True(t, h.orch.PendingVisible())
	assert.Equal(t, LabelClose, h.orch.PendingLabel(70))
	assert.Equal(t, "70", h.fetched[0].Get("repository_id"), "pending is scoped by row id")
	assert.Len(t, h.orch.Pending().Items(), 1)

	runPending(t, h, repo)
	assert.False(t, h.orch.PendingVisible())
	assert.Equal(t, LabelShow, h.orch.PendingLabel(70))
}

func TestExternalHideDesyncsLabel(t *testing.T) {
	h := newHarness(t)
	repo := &domain.Repository{ID: 70, RepositoryID: 7}

	runPending(t, h, repo)
	h.orch.HidePending()
	require.False(t, h.orch.PendingVisible())
	assert.Equal(t, LabelClose, h.orch.PendingLabel(70))

	// The next call shows the panel again while the label flips back to Show
	runPending(t, h, repo)
	assert.True(t, h.orch.PendingVisible())
	assert.Equal(t, LabelShow, h.orch.PendingLabel(70))
}

func TestPendingFailureNotifies(t *testing.T) {
	h := newHarness(t)
	effects := h.orch.ShowPending(&domain.Repository{ID: 3})
	fetch := effects[0].(FetchPending)

	effects = h.orch.PendingLoaded(fetch.Ticket, domain.Page[*domain.PendingPatch]{}, errors.New("timeout"))

	requireDanger(t, effects, "Loading pending patches failed: timeout")
	assert.False(t, h.orch.PendingVisible())
}
