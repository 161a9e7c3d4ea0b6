// Package query drives the statistics query form: opening, validation,
// submission, the result view and the pending-patches side panel.
//
// Transitions never perform I/O. They return effects that the caller executes
// and later feeds back through StatsLoaded and PendingLoaded.
package query

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"robin/internal/domain"
	"robin/internal/eventbus"
	"robin/internal/pagination"
	"robin/internal/selection"
)

// Phase is the orchestrator state
type Phase int

const (
	PhaseBrowsing Phase = iota
	PhaseAwaitingInput
	PhaseValidating
	PhaseSubmitting
	PhaseResulted
)

func (p Phase) String() string {
	switch p {
	case PhaseBrowsing:
		return "browsing"
	case PhaseAwaitingInput:
		return "awaiting-input"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResulted:
		return "resulted"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// Effect is a side effect requested by a transition
type Effect interface {
	effect()
}

// ShowModal asks for the query form to be displayed
type ShowModal struct{}

// HideModal asks for the query form to be dismissed
type HideModal struct{}

// Notify displays a notification and schedules Expire(Seq) after After
type Notify struct {
	Notification domain.Notification
	Seq          uint64
	After        time.Duration
}

// FetchStats asks for a stats request; the outcome goes to StatsLoaded with Tag
type FetchStats struct {
	Tag   uint64
	Input domain.QueryInput
}

// FetchPending asks for the pending patches of one repository; the outcome
// goes to PendingLoaded with the same ticket
type FetchPending struct {
	Ticket       pagination.Ticket
	RepositoryID int
}

func (ShowModal) effect()    {}
func (HideModal) effect()    {}
func (Notify) effect()       {}
func (FetchStats) effect()   {}
func (FetchPending) effect() {}

// Options configure an Orchestrator
type Options struct {
	Category            domain.Category
	DefaultStatsType    domain.StatsType
	NotificationTimeout time.Duration
	Now                 func() time.Time
	Bus                 eventbus.EventBus
	Logger              *slog.Logger
}

// Orchestrator owns the query form state. It is not safe for concurrent use.
type Orchestrator struct {
	repos   *selection.Service[*domain.Repository]
	teams   *selection.Service[*domain.Team]
	pending *pagination.Store[*domain.PendingPatch]

	notifier *Notifier
	panels   *Panels
	bus      eventbus.EventBus
	logger   *slog.Logger
	now      func() time.Time

	phase            Phase
	category         domain.Category
	defaultStatsType domain.StatsType
	statsType        domain.StatsType
	beginDate        string
	endDate          string

	statsTag     uint64
	result       *domain.QueryResult
	hasResult    bool
	pendingRepos map[uint64]int
}

// New creates an orchestrator reading selections from repos and teams and
// storing pending patches in pending. Both date fields start at today.
func New(repos *selection.Service[*domain.Repository], teams *selection.Service[*domain.Team], pending *pagination.Store[*domain.PendingPatch], opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Bus == nil {
		opts.Bus = eventbus.NullBus{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Category == "" {
		opts.Category = domain.CategoryClosedPatchs
	}
	if opts.DefaultStatsType == 0 {
		opts.DefaultStatsType = domain.StatsPersonal
	}

	o := &Orchestrator{
		repos:            repos,
		teams:            teams,
		pending:          pending,
		notifier:         NewNotifier(opts.NotificationTimeout, opts.Now),
		panels:           NewPanels(),
		bus:              opts.Bus,
		logger:           opts.Logger,
		now:              opts.Now,
		category:         opts.Category,
		defaultStatsType: opts.DefaultStatsType,
		statsType:        opts.DefaultStatsType,
		pendingRepos:     make(map[uint64]int),
	}
	o.beginDate = o.Today()
	o.endDate = o.beginDate
	return o
}

// Today returns the current local date as YYYY-MM-DD
func (o *Orchestrator) Today() string {
	return o.now().Format(domain.DateLayout)
}

// Open shows the query form when a repository and a team are selected
func (o *Orchestrator) Open() []Effect {
	if o.phase != PhaseBrowsing {
		return nil
	}
	if !o.repos.HasSelection() || !o.teams.HasSelection() {
		return o.reject(MsgSelectionRequired)
	}

	o.statsType = o.defaultStatsType
	o.phase = PhaseAwaitingInput
	o.bus.Publish(domain.QueryOpenedEvent{})
	return []Effect{ShowModal{}}
}

// Cancel closes the form. A request in flight is abandoned.
func (o *Orchestrator) Cancel() []Effect {
	switch o.phase {
	case PhaseAwaitingInput, PhaseSubmitting:
		o.statsTag++
		o.phase = PhaseBrowsing
		return []Effect{HideModal{}}
	default:
		return nil
	}
}

// Submit validates the form and issues the stats request
func (o *Orchestrator) Submit() []Effect {
	if o.phase != PhaseAwaitingInput {
		return nil
	}

	o.phase = PhaseValidating
	if err := ValidateDates(o.beginDate, o.endDate); err != nil {
		o.phase = PhaseAwaitingInput
		return o.reject(err.Error())
	}

	if o.category != domain.CategoryClosedPatchs {
		o.phase = PhaseAwaitingInput
		return o.reject(fmt.Sprintf("Unsupported query category: %s", o.category))
	}

	repo, ok := o.repos.Active()
	team, ok2 := o.teams.Active()
	if !ok || !ok2 {
		o.phase = PhaseAwaitingInput
		return o.reject(MsgSelectionRequired)
	}

	input := domain.QueryInput{
		Category:     o.category,
		RepositoryID: repo.RepositoryID,
		TeamCode:     team.TeamCode,
		MemberIDs:    append([]string(nil), team.Members...),
		StatsType:    o.statsType,
		BeginDate:    strings.TrimSpace(o.beginDate),
		EndDate:      strings.TrimSpace(o.endDate),
	}

	o.statsTag++
	o.phase = PhaseSubmitting
	o.logger.Debug("submitting stats query",
		"repository_id", input.RepositoryID,
		"team", input.TeamCode,
		"stats_type", input.StatsType.String(),
		"start", input.BeginDate,
		"end", input.EndDate)
	o.bus.Publish(domain.QuerySubmittedEvent{Input: input})

	return []Effect{FetchStats{Tag: o.statsTag, Input: input}}
}

// StatsLoaded applies the outcome of a stats request. Responses for an
// abandoned or superseded tag are ignored.
func (o *Orchestrator) StatsLoaded(tag uint64, result *domain.QueryResult, err error) []Effect {
	if tag != o.statsTag || o.phase != PhaseSubmitting {
		o.logger.Debug("discarding stale stats response", "tag", tag, "current", o.statsTag)
		return nil
	}

	if err != nil {
		o.phase = PhaseAwaitingInput
		o.logger.Error("stats query failed", "err", err)
		o.bus.Publish(domain.RequestFailedEvent{Collection: domain.CollectionStats, Err: err})
		return []Effect{o.notifier.Notify(domain.NotifyDanger, fmt.Sprintf("Query failed: %v", err))}
	}

	o.result = result
	o.hasResult = true
	o.phase = PhaseResulted
	count := 0
	if result != nil {
		count = result.Patches.Count
	}
	o.bus.Publish(domain.QuerySucceededEvent{Count: count})

	return []Effect{
		HideModal{},
		o.notifier.Notify(domain.NotifySuccess, MsgQuerySuccess),
	}
}

// ReturnBack leaves the result view. Selections are kept.
func (o *Orchestrator) ReturnBack() []Effect {
	if o.phase != PhaseResulted {
		return nil
	}
	o.result = nil
	o.hasResult = false
	o.phase = PhaseBrowsing
	o.bus.Publish(domain.QueryClearedEvent{})
	return nil
}

// ShowPending requests the pending patches of repo
func (o *Orchestrator) ShowPending(repo *domain.Repository) []Effect {
	if repo == nil {
		return nil
	}
	params := url.Values{"repository_id": {strconv.Itoa(repo.ID)}}
	ticket, _ := o.pending.Begin(pagination.DirectionLoad, params)
	o.pendingRepos[ticket.Seq] = repo.ID
	return []Effect{FetchPending{Ticket: ticket, RepositoryID: repo.ID}}
}

// PendingLoaded stores the pending page and flips the panel for its repository
func (o *Orchestrator) PendingLoaded(ticket pagination.Ticket, page domain.Page[*domain.PendingPatch], err error) []Effect {
	repoID, known := o.pendingRepos[ticket.Seq]
	delete(o.pendingRepos, ticket.Seq)

	if rerr := o.pending.Resolve(ticket, page, err); rerr != nil {
		if errors.Is(rerr, pagination.ErrStale) {
			return nil
		}
		o.logger.Error("pending patches request failed", "err", err, "repository", repoID)
		o.bus.Publish(domain.RequestFailedEvent{Collection: domain.CollectionPending, Err: err})
		return []Effect{o.notifier.Notify(domain.NotifyDanger, fmt.Sprintf("Loading pending patches failed: %v", err))}
	}
	if !known {
		return nil
	}

	visible, label := o.panels.Toggle(repoID)
	o.bus.Publish(domain.PageLoadedEvent{Collection: domain.CollectionPending, Count: page.Count, Items: len(page.Results)})
	o.bus.Publish(domain.PendingToggledEvent{RepositoryID: repoID, Visible: visible, Label: label})
	return nil
}

// HidePending closes the pending panel without touching row labels
func (o *Orchestrator) HidePending() {
	o.panels.Hide()
}

// Expire clears the notification issued with seq if it is still current
func (o *Orchestrator) Expire(seq uint64) bool {
	return o.notifier.Expire(seq)
}

// NotifyError shows a danger notification for a failure outside the query flow
func (o *Orchestrator) NotifyError(collection domain.Collection, err error) []Effect {
	o.bus.Publish(domain.RequestFailedEvent{Collection: collection, Err: err})
	return []Effect{o.notifier.Notify(domain.NotifyDanger, fmt.Sprintf("Loading %s failed: %v", collection, err))}
}

func (o *Orchestrator) reject(reason string) []Effect {
	o.bus.Publish(domain.QueryRejectedEvent{Reason: reason})
	return []Effect{o.notifier.Notify(domain.NotifyDanger, reason)}
}

// SetBeginDate sets the start date field
func (o *Orchestrator) SetBeginDate(v string) { o.beginDate = v }

// SetEndDate sets the end date field
func (o *Orchestrator) SetEndDate(v string) { o.endDate = v }

// SetStatsType sets how members are resolved
func (o *Orchestrator) SetStatsType(t domain.StatsType) { o.statsType = t }

// SetCategory selects the query category
func (o *Orchestrator) SetCategory(c domain.Category) { o.category = c }

func (o *Orchestrator) Phase() Phase { return o.phase }
func (o *Orchestrator) BeginDate() string { return o.beginDate }
func (o *Orchestrator) EndDate() string { return o.endDate }
func (o *Orchestrator) StatsType() domain.StatsType { return o.statsType }
func (o *Orchestrator) Category() domain.Category { return o.category }
func (o *Orchestrator) HasResult() bool { return o.hasResult }
func (o *Orchestrator) Result() *domain.QueryResult { return o.result }
func (o *Orchestrator) ModalOpen() bool { return o.phase == PhaseAwaitingInput || o.phase == PhaseSubmitting }
func (o *Orchestrator) PendingVisible() bool { return o.panels.Visible() }
func (o *Orchestrator) PendingLabel(repoID int) string { return o.panels.Label(repoID) }
func (o *Orchestrator) Pending() *pagination.Store[*domain.PendingPatch] { return o.pending }

// Notification returns the visible notification
func (o *Orchestrator) Notification() (domain.Notification, bool) {
	return o.notifier.Current()
}
