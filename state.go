package warehouse

import (
	"slices"
	"time"
)

// State is the full content of the inventory: the four collections that are
// saved, exported and imported together.
//
// A State obtained from a Store must be treated as read-only, the Store never
// mutates a State it has committed.
type State struct {
	Partners []Partner
	Items    []Item
	Assets   []Asset
	Logs     []LogEntry // newest first
}

// clone returns a deep enough copy of s for the Store to mutate.
func (s State) clone() State {
	return State{
		Partners: slices.Clone(s.Partners),
		Items:    slices.Clone(s.Items),
		Assets:   slices.Clone(s.Assets),
		Logs:     slices.Clone(s.Logs),
	}
}

func (s State) partnerIndex(id string) int {
	return slices.IndexFunc(s.Partners, func(p Partner) bool { return p.ID == id })
}

func (s State) itemIndex(id string) int {
	return slices.IndexFunc(s.Items, func(it Item) bool { return it.ID == id })
}

func (s State) assetIndex(id string) int {
	return slices.IndexFunc(s.Assets, func(a Asset) bool { return a.ID == id })
}

// Partner returns the partner with this id.
func (s State) Partner(id string) (Partner, bool) {
	if i := s.partnerIndex(id); i >= 0 {
		return s.Partners[i], true
	}
	return Partner{}, false
}

// Item returns the stored (not reconciled) item with this id.
func (s State) Item(id string) (Item, bool) {
	if i := s.itemIndex(id); i >= 0 {
		return s.Items[i], true
	}
	return Item{}, false
}

// Asset returns the asset with this id.
func (s State) Asset(id string) (Asset, bool) {
	if i := s.assetIndex(id); i >= 0 {
		return s.Assets[i], true
	}
	return Asset{}, false
}

// AvailableBySignal returns the AVAILABLE asset carrying this signal number, if any.
func (s State) AvailableBySignal(signal string) (Asset, bool) {
	for _, a := range s.Assets {
		if a.SignalNumber == signal && a.Available() {
			return a, true
		}
	}
	return Asset{}, false
}

// AssetsOf returns the assets of an item, in registration order. An empty
// status matches every asset.
func (s State) AssetsOf(itemID string, status Status) []Asset {
	var out []Asset
	for _, a := range s.Assets {
		if a.ItemID == itemID && (status == "" || a.Status == status) {
			out = append(out, a)
		}
	}
	return out
}

// LastActivity returns the time of the most recent ledger entry, or the zero
// time for an empty ledger.
func (s State) LastActivity() time.Time {
	if len(s.Logs) == 0 {
		return time.Time{}
	}
	return s.Logs[0].Timestamp
}

// touch refreshes the lastUpdated time of an item.
func (s *State) touch(itemIndex int, now time.Time) {
	s.Items[itemIndex].LastUpdated = now
}

// prepend adds e at the head of the ledger.
func (s *State) prepend(e LogEntry) {
	s.Logs = append([]LogEntry{e}, s.Logs...)
}
