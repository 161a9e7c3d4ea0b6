package query

import (
	"time"

	"robin/internal/domain"
)

// DefaultNotificationTimeout is how long a notification stays visible
const DefaultNotificationTimeout = 3 * time.Second

// Notifier holds the single visible notification. Each Notify supersedes the
// previous one, so an older expiry no longer clears the screen.
type Notifier struct {
	timeout time.Duration
	now     func() time.Time
	seq     uint64
	current *domain.Notification
}

// NewNotifier creates a notifier; a zero timeout uses the default
func NewNotifier(timeout time.Duration, now func() time.Time) *Notifier {
	if timeout <= 0 {
		timeout = DefaultNotificationTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{timeout: timeout, now: now}
}

// Notify replaces the current notification and returns the effect that
// schedules its expiry
func (n *Notifier) Notify(kind domain.NotificationKind, message string) Notify {
	n.seq++
	note := domain.Notification{
		Message:   message,
		Kind:      kind,
		ExpiresAt: n.now().Add(n.timeout),
	}
	n.current = &note
	return Notify{Notification: note, Seq: n.seq, After: n.timeout}
}

// Expire clears the notification if seq is still the current one
func (n *Notifier) Expire(seq uint64) bool {
	if seq != n.seq || n.current == nil {
		return false
	}
	n.current = nil
	return true
}

// Current returns the visible notification
func (n *Notifier) Current() (domain.Notification, bool) {
	if n.current == nil {
		return domain.Notification{}, false
	}
	return *n.current, true
}

// Timeout returns the configured expiry delay
func (n *Notifier) Timeout() time.Duration { return n.timeout }
