package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robin/internal/domain"
	"robin/internal/eventbus"
)

type recordingBus struct {
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) { b.events = append(b.events, e) }

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

func TestServiceTogglePublishesChange(t *testing.T) {
	bus := &recordingBus{}
	svc := NewService[*domain.Team](domain.CollectionTeams, bus)

	team := &domain.Team{TeamCode: "virt"}
	svc.Reconcile([]*domain.Team{team})
	svc.Toggle(team)

	require.Len(t, bus.events, 1)
	assert.Equal(t, domain.SelectionChangedEvent{
		Collection: domain.CollectionTeams,
		Key:        "virt",
		Checked:    true,
		Total:      1,
	}, bus.events[0])

	active, ok := svc.Active()
	require.True(t, ok)
	assert.Same(t, team, active)
	assert.True(t, svc.IsSelected("virt"))
}

func TestServiceWithoutBus(t *testing.T) {
	svc := NewService[*domain.Repository](domain.CollectionRepositories, nil)
	r := &domain.Repository{RepositoryID: 1}

	svc.Toggle(r)
	svc.Toggle(r)

	assert.False(t, svc.HasSelection())
	assert.Empty(t, svc.GetSelected())
}
