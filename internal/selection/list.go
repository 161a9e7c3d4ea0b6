package selection

// Item is a fetched record that can be checked in a list view
type Item interface {
	// Key returns the identity key used to match and deduplicate items
	Key() string
	Checked() bool
	// Stamped reports whether the checked flag has been initialised
	Stamped() bool
	SetChecked(bool)
}

// List is an ordered selection of item objects, unique by identity key
type List[T Item] struct {
	items []T
}

// NewList creates an empty selection list
func NewList[T Item]() *List[T] {
	return &List[T]{}
}

// Contains reports whether an item with the key is selected
func (l *List[T]) Contains(key string) bool {
	return l.indexOf(key) >= 0
}

// Add appends the item after dropping any entry with the same key
func (l *List[T]) Add(item T) {
	l.Remove(item.Key())
	l.items = append(l.items, item)
}

// Remove drops the entry matching key and reports whether one existed
func (l *List[T]) Remove(key string) bool {
	i := l.indexOf(key)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

// Items returns a copy of the selected items in selection order
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// First returns the active selection, the earliest still-selected item
func (l *List[T]) First() (T, bool) {
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	return l.items[0], true
}

// Len returns the number of selected items
func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) indexOf(key string) int {
	for i, it := range l.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}
