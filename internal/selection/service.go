package selection

import (
	"robin/internal/domain"
	"robin/internal/eventbus"
)

// Service owns the selection for one collection kind
type Service[T Item] struct {
	collection domain.Collection
	list       *List[T]
	bus        eventbus.EventBus
}

// NewService creates a new selection service
func NewService[T Item](collection domain.Collection, bus eventbus.EventBus) *Service[T] {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	return &Service[T]{
		collection: collection,
		list:       NewList[T](),
		bus:        bus,
	}
}

// Reconcile stamps checked flags on a freshly loaded page
func (s *Service[T]) Reconcile(page []T) []T {
	return Reconcile(page, s.list)
}

// Toggle flips the item and publishes the change
func (s *Service[T]) Toggle(item T) bool {
	checked := Toggle(item, s.list)

	s.bus.Publish(domain.SelectionChangedEvent{
		Collection: s.collection,
		Key:        item.Key(),
		Checked:    checked,
		Total:      s.list.Len(),
	})

	return checked
}

// IsSelected checks if an item with the key is selected
func (s *Service[T]) IsSelected(key string) bool {
	return s.list.Contains(key)
}

// Active returns the selection a query will use
func (s *Service[T]) Active() (T, bool) {
	return s.list.First()
}

// GetSelected returns the selected items in selection order
func (s *Service[T]) GetSelected() []T {
	return s.list.Items()
}

// HasSelection returns true if anything is selected
func (s *Service[T]) HasSelection() bool {
	return s.list.Len() > 0
}

// List exposes the underlying selection list
func (s *Service[T]) List() *List[T] {
	return s.list
}
