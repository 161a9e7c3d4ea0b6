package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDatesAcceptsSameDay(t *testing.T) {
	assert.NoError(t, ValidateDates("2024-01-01", "2024-01-01"))
	assert.NoError(t, ValidateDates(" 2024-01-01", "2024-01-02 "))
}

func TestValidateDatesError(t *testing.T) {
	err := ValidateDates("2024-13-01", "2024-01-01")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgDateFormat, verr.Message)
}

func TestNotifierDefaultsAndExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := NewNotifier(0, func() time.Time { return now })
	require.Equal(t, DefaultNotificationTimeout, n.Timeout())

	_, ok := n.Current()
	assert.False(t, ok)
	assert.False(t, n.Expire(0))

	eff := n.Notify("success", "done")
	assert.Equal(t, uint64(1), eff.Seq)
	assert.Equal(t, DefaultNotificationTimeout, eff.After)

	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "done", cur.Message)

	assert.True(t, n.Expire(eff.Seq))
	assert.False(t, n.Expire(eff.Seq), "already cleared")
}
