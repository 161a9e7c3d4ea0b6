package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Page is one page of a paginated remote collection
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`     // absolute URL, "" when there is no next page
	Previous string `json:"previous"` // absolute URL, "" when there is no previous page
	Results  []T    `json:"results"`
}

// HasNext reports whether a forward cursor is available
func (p Page[T]) HasNext() bool { return p.Next != "" }

// HasPrevious reports whether a backward cursor is available
func (p Page[T]) HasPrevious() bool { return p.Previous != "" }

// Repository is a tracked source repository
type Repository struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	RepositoryID int    `json:"repository_id"`
	CheckFlag    *bool  `json:"checked,omitempty"` // nil until stamped
}

// Key returns the identity key used for selection matching
func (r *Repository) Key() string { return strconv.Itoa(r.RepositoryID) }

// Checked reports the stamped checked flag
func (r *Repository) Checked() bool { return r.CheckFlag != nil && *r.CheckFlag }

// Stamped reports whether a checked flag has been set on this object
func (r *Repository) Stamped() bool { return r.CheckFlag != nil }

// SetChecked stamps the checked flag
func (r *Repository) SetChecked(v bool) { r.CheckFlag = &v }

// Team is a group of members identified by a team code
type Team struct {
	TeamCode  string   `json:"team_code"`
	TeamName  string   `json:"team_name,omitempty"`
	Members   []string `json:"members"` // member kerberos ids
	CheckFlag *bool    `json:"checked,omitempty"`
}

func (t *Team) Key() string { return t.TeamCode }
func (t *Team) Checked() bool { return t.CheckFlag != nil && *t.CheckFlag }
func (t *Team) Stamped() bool { return t.CheckFlag != nil }
func (t *Team) SetChecked(v bool) { t.CheckFlag = &v }

// DisplayName returns the team name, falling back to its code
func (t *Team) DisplayName() string {
	if t.TeamName != "" {
		return t.TeamName
	}
	return t.TeamCode
}

// PendingPatch is an open patch still waiting for review
type PendingPatch struct {
	PatchNumber  int        `json:"patch_number"`
	Repo         string     `json:"repo"`
	PatchTitle   string     `json:"patch_title"`
	BugID        FlexString `json:"bug_id"`
	Author       string     `json:"author"`
	Team         string     `json:"team"`
	Reviews      int        `json:"reviews"`
	TotalPending int        `json:"total_pending"` // days since creation
	LastUpdated  int        `json:"last_updated"`  // days since last update
	CreatedAt    string     `json:"create_at"`
	UpdatedAt    string     `json:"updated_at"`
	PatchURL     string     `json:"patch_url"`
}

// ClosedPatch is a merged patch returned by the closed-patch stats query
type ClosedPatch struct {
	PatchNumber  int        `json:"patch_number"`
	Repo         string     `json:"repo"`
	PatchTitle   string     `json:"patch_title"`
	BugID        FlexString `json:"bug_id"`
	Author       string     `json:"author"`
	PullMerged   bool       `json:"pull_merged"`
	Commits      int        `json:"commits"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	ChangedFiles int        `json:"changed_files"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at"`
	ClosedAt     string     `json:"closed_at"`
	MergedBy     string     `json:"merged_by"`
	PatchURL     string     `json:"patch_url"`
}

// FlexString accepts a JSON string, number or null
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Category selects which statistics query is issued
type Category string

const (
	CategoryClosedPatchs Category = "closedPatchs"
)

// StatsType selects how members are resolved server-side
type StatsType int

const (
	StatsPersonal StatsType = 1 // explicit comma-joined member ids
	StatsTeam     StatsType = 2 // all members of the team code
)

func (s StatsType) String() string {
	switch s {
	case StatsPersonal:
		return "personal"
	case StatsTeam:
		return "team"
	default:
		return "stats_type(" + strconv.Itoa(int(s)) + ")"
	}
}

// DateLayout is the wire and input format for query dates
const DateLayout = "2006-01-02"

// QueryInput is the bounded statistics request built at submit time
type QueryInput struct {
	Category     Category
	RepositoryID int
	TeamCode     string
	MemberIDs    []string
	StatsType    StatsType
	BeginDate    string
	EndDate      string
}

// QueryResult is the response of a statistics query
type QueryResult struct {
	Raw     json.RawMessage
	Patches Page[*ClosedPatch] // best-effort decode of Raw
}

// NotificationKind is the severity of a transient notification
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyDanger  NotificationKind = "danger"
)

// Notification is a transient message shown to the operator
type Notification struct {
	Message   string
	Kind      NotificationKind
	ExpiresAt time.Time
}
