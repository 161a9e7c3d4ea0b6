package selection

// Reconcile stamps the checked flag on every item of a freshly loaded page.
//
// Stamping happens once per item object: items that already carry a flag are
// left alone even if the selection has changed since, so later changes must go
// through Toggle.
func Reconcile[T Item](page []T, list *List[T]) []T {
	for _, item := range page {
		if item.Stamped() {
			continue
		}
		item.SetChecked(list.Contains(item.Key()))
	}
	return page
}

// Toggle flips an item in or out of the selection and returns its new state
func Toggle[T Item](item T, list *List[T]) bool {
	if !item.Checked() {
		list.Add(item)
		item.SetChecked(true)
		return true
	}
	list.Remove(item.Key())
	item.SetChecked(false)
	return false
}
