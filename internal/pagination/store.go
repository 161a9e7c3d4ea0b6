// Package pagination holds one page of a remote collection together with its
// navigation cursors.
package pagination

import (
	"context"
	"errors"
	"net/url"

	"robin/internal/domain"
)

var (
	// ErrNoPage is returned when navigating past the first or last page
	ErrNoPage = errors.New("no page in that direction")
	// ErrStale is returned when a response arrives after a newer request was issued
	ErrStale = errors.New("stale page response")
)

// FetchFunc retrieves a page. A non-empty cursor is an absolute URL returned by
// the server and takes precedence over params.
type FetchFunc[T any] func(ctx context.Context, cursor string, params url.Values) (domain.Page[T], error)

// Direction selects which page a request targets
type Direction int

const (
	DirectionLoad Direction = iota
	DirectionNext
	DirectionPrev
)

func (d Direction) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrev:
		return "prev"
	default:
		return "load"
	}
}

// Ticket identifies one issued page request
type Ticket struct {
	Seq       uint64
	Direction Direction
	Cursor    string
	Params    url.Values
}

// Store holds the current page of one collection.
// It is not safe for concurrent use; only Fetch may run off the owning goroutine.
type Store[T any] struct {
	fetch  FetchFunc[T]
	page   domain.Page[T]
	loaded bool
	params url.Values
	seq    uint64
}

// New creates an empty store backed by fetch
func New[T any](fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{fetch: fetch}
}

// Begin issues a request ticket. It returns false when the direction has no cursor.
func (s *Store[T]) Begin(dir Direction, params url.Values) (Ticket, bool) {
	t := Ticket{Direction: dir}
	switch dir {
	case DirectionNext:
		if !s.page.HasNext() {
			return Ticket{}, false
		}
		t.Cursor = s.page.Next
	case DirectionPrev:
		if !s.page.HasPrevious() {
			return Ticket{}, false
		}
		t.Cursor = s.page.Previous
	default:
		t.Params = cloneValues(params)
	}

	s.seq++
	t.Seq = s.seq
	return t, true
}

// Fetch runs the fetch function for a ticket without touching store state
func (s *Store[T]) Fetch(ctx context.Context, t Ticket) (domain.Page[T], error) {
	return s.fetch(ctx, t.Cursor, t.Params)
}

// Resolve applies the outcome of a ticket. The page is replaced only when the
// ticket is the newest one issued and the fetch succeeded.
func (s *Store[T]) Resolve(t Ticket, page domain.Page[T], err error) error {
	if t.Seq != s.seq {
		return ErrStale
	}
	if err != nil {
		return err
	}
	s.page = page
	s.loaded = true
	if t.Direction == DirectionLoad {
		s.params = t.Params
	}
	return nil
}

// Load fetches the first page with params and replaces the current one
func (s *Store[T]) Load(ctx context.Context, params url.Values) (domain.Page[T], error) {
	t, _ := s.Begin(DirectionLoad, params)
	return s.run(ctx, t)
}

// Next fetches the page after the current one
func (s *Store[T]) Next(ctx context.Context) (domain.Page[T], error) {
	t, ok := s.Begin(DirectionNext, nil)
	if !ok {
		return s.page, ErrNoPage
	}
	return s.run(ctx, t)
}

// Prev fetches the page before the current one
func (s *Store[T]) Prev(ctx context.Context) (domain.Page[T], error) {
	t, ok := s.Begin(DirectionPrev, nil)
	if !ok {
		return s.page, ErrNoPage
	}
	return s.run(ctx, t)
}

func (s *Store[T]) run(ctx context.Context, t Ticket) (domain.Page[T], error) {
	page, err := s.Fetch(ctx, t)
	if err := s.Resolve(t, page, err); err != nil {
		return s.page, err
	}
	return s.page, nil
}

// Page returns the current page
func (s *Store[T]) Page() domain.Page[T] { return s.page }

// Items returns the items of the current page
func (s *Store[T]) Items() []T { return s.page.Results }

// Loaded reports whether any page has been applied
func (s *Store[T]) Loaded() bool { return s.loaded }

// Params returns the parameters of the last applied load
func (s *Store[T]) Params() url.Values { return cloneValues(s.params) }

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
