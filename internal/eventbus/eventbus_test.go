package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robin/internal/domain"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	got := make(chan domain.DomainEvent, 1)
	bus.Subscribe(domain.EventQueryOpened, func(e DomainEvent) { got <- e })

	bus.Publish(domain.QueryOpenedEvent{})

	select {
	case e := <-got:
		assert.Equal(t, domain.EventQueryOpened, e.Type())
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestHandlersOnlySeeTheirType(t *testing.T) {
	bus := New(nil)

	var opened, cleared atomic.Int32
	bus.Subscribe(domain.EventQueryOpened, func(DomainEvent) { opened.Add(1) })
	bus.Subscribe(domain.EventQueryCleared, func(DomainEvent) { cleared.Add(1) })

	bus.Publish(domain.QueryOpenedEvent{})
	bus.Publish(domain.QueryOpenedEvent{})
	bus.Publish(domain.QueryClearedEvent{})
	bus.Close()

	assert.Equal(t, int32(2), opened.Load())
	assert.Equal(t, int32(1), cleared.Load())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New(nil)

	var calls atomic.Int32
	unsubscribe := bus.Subscribe(domain.EventQueryOpened, func(DomainEvent) { calls.Add(1) })
	unsubscribe()

	bus.Publish(domain.QueryOpenedEvent{})
	bus.Close()

	assert.Zero(t, calls.Load())
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	bus := New(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(domain.EventQueryOpened, func(DomainEvent) { panic("boom") })
	bus.Subscribe(domain.EventQueryOpened, func(DomainEvent) { wg.Done() })

	bus.Publish(domain.QueryOpenedEvent{})
	wg.Wait()
	bus.Close()
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	bus := New(nil)
	var calls atomic.Int32
	bus.Subscribe(domain.EventQueryOpened, func(DomainEvent) { calls.Add(1) })
	bus.Close()

	require.NotPanics(t, func() { bus.Publish(domain.QueryOpenedEvent{}) })
	assert.Zero(t, calls.Load())
}
