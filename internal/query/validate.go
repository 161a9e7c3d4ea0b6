package query

import (
	"strings"
	"time"

	"robin/internal/domain"
)

// Operator-facing messages
const (
	MsgSelectionRequired = "Please choose a repository and a team or member."
	MsgDatesRequired     = "Start and End dates are required."
	MsgDateFormat        = "Dates must use the YYYY-MM-DD format."
	MsgDateOrder         = "Start date can not be later than the End date."
	MsgQuerySuccess      = "Query Success"
)

// ValidationError rejects a query before any request is made
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateDates checks the date range in order: presence, format, ordering
func ValidateDates(begin, end string) error {
	begin, end = strings.TrimSpace(begin), strings.TrimSpace(end)
	if begin == "" || end == "" {
		return &ValidationError{Message: MsgDatesRequired}
	}

	b, err := time.Parse(domain.DateLayout, begin)
	if err != nil {
		return &ValidationError{Message: MsgDateFormat}
	}
	e, err := time.Parse(domain.DateLayout, end)
	if err != nil {
		return &ValidationError{Message: MsgDateFormat}
	}

	if b.After(e) {
		return &ValidationError{Message: MsgDateOrder}
	}
	return nil
}
