package warehouse

// Reconcile returns the items with the quantity of every serialized item
// replaced by the number of its AVAILABLE assets. Bulk items are returned
// unchanged. The inputs are not modified.
func Reconcile(items []Item, assets []Asset) []Item {
	available := make(map[string]int)
	for _, a := range assets {
		if a.Available() {
			available[a.ItemID]++
		}
	}
	out := make([]Item, len(items))
	for i, it := range items {
		if it.Mode() == Serialized {
			it.Quantity = available[it.ID]
		}
		out[i] = it
	}
	return out
}

// Reconciled returns the reconciled view of the state's items.
func (s State) Reconciled() []Item { return Reconcile(s.Items, s.Assets) }

// ReconciledItem returns the reconciled view of one item.
func (s State) ReconciledItem(id string) (Item, bool) {
	it, ok := s.Item(id)
	if !ok {
		return Item{}, false
	}
	if it.Mode() == Serialized {
		it.Quantity = len(s.AssetsOf(id, Available))
	}
	return it, true
}
