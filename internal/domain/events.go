package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPageLoaded       EventType = "PageLoaded"
	EventSelectionChanged EventType = "SelectionChanged"
	EventQueryOpened      EventType = "QueryOpened"
	EventQueryRejected    EventType = "QueryRejected"
	EventQuerySubmitted   EventType = "QuerySubmitted"
	EventQuerySucceeded   EventType = "QuerySucceeded"
	EventQueryCleared     EventType = "QueryCleared"
	EventPendingToggled   EventType = "PendingToggled"
	EventRequestFailed    EventType = "RequestFailed"
)

// Collection names the remote collection an event refers to
type Collection string

const (
	CollectionRepositories Collection = "repositories"
	CollectionTeams        Collection = "teams"
	CollectionPending      Collection = "pending"
	CollectionStats        Collection = "stats"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PageLoadedEvent is emitted when a page replaces the current one
type PageLoadedEvent struct {
	Collection Collection
	Count      int
	Items      int
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// SelectionChangedEvent is emitted when an item is toggled
type SelectionChangedEvent struct {
	Collection Collection
	Key        string
	Checked    bool
	Total      int
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// QueryOpenedEvent is emitted when the query modal is opened
type QueryOpenedEvent struct{}

func (e QueryOpenedEvent) Type() EventType { return EventQueryOpened }

// QueryRejectedEvent is emitted when validation stops an open or submit
type QueryRejectedEvent struct {
	Reason string
}

func (e QueryRejectedEvent) Type() EventType { return EventQueryRejected }

// QuerySubmittedEvent is emitted when a stats request is issued
type QuerySubmittedEvent struct {
	Input QueryInput
}

func (e QuerySubmittedEvent) Type() EventType { return EventQuerySubmitted }

// QuerySucceededEvent is emitted when a stats response is stored
type QuerySucceededEvent struct {
	Count int
}

func (e QuerySucceededEvent) Type() EventType { return EventQuerySucceeded }

// QueryClearedEvent is emitted when the result view is left
type QueryClearedEvent struct{}

func (e QueryClearedEvent) Type() EventType { return EventQueryCleared }

// PendingToggledEvent is emitted after the pending panel flips
type PendingToggledEvent struct {
	RepositoryID int
	Visible      bool
	Label        string
}

func (e PendingToggledEvent) Type() EventType { return EventPendingToggled }

// RequestFailedEvent is emitted when a remote call fails
type RequestFailedEvent struct {
	Collection Collection
	Err        error
}

func (e RequestFailedEvent) Type() EventType { return EventRequestFailed }
