package warehouse

import (
	"fmt"
	"slices"
)

// PlanKind identifies the destructive operation described by a Plan.
type PlanKind string

const (
	DeleteAssetPlan PlanKind = "delete-asset"
	DeleteItemPlan  PlanKind = "delete-item"
	ImportPlan      PlanKind = "import"
)

// Plan describes a destructive operation before it happens. It is returned by
// the Plan* methods of a Store and applied by Store.Commit once the user has
// agreed to it.
type Plan struct {
	Kind     PlanKind
	Revision int // store revision the plan was computed against

	Item     Item      // the deleted item, or the owner of the deleted asset
	Asset    Asset     // the deleted asset
	Assets   []Asset   // assets removed along with the item
	Snapshot *Snapshot // the imported snapshot
}

// Description returns a one line summary of the effect of the plan.
func (p Plan) Description() string {
	switch p.Kind {
	case DeleteAssetPlan:
		status := "in stock, the stock of the item decreases by 1"
		if !p.Asset.Available() {
			status = "shipped"
		}
		return fmt.Sprintf("permanently delete signal number %s of %q (%s)", p.Asset.SignalNumber, p.Item.Name, status)
	case DeleteItemPlan:
		return fmt.Sprintf("delete item %q and its %d serialized unit(s), history is kept", p.Item.Name, len(p.Assets))
	case ImportPlan:
		st := p.Snapshot.State()
		return fmt.Sprintf("replace the whole inventory with %d item(s), %d partner(s), %d unit(s) and %d log entries",
			len(st.Items), len(st.Partners), len(st.Assets), len(st.Logs))
	default:
		return fmt.Sprintf("unknown plan %q", p.Kind)
	}
}

// Commit applies a plan. It returns the ledger entry written by the
// operation, if any. A plan computed before another commit is rejected with
// ErrStalePlan and nothing changes.
func (s *Store) Commit(p Plan) (*LogEntry, error) {
	if p.Revision != s.revision {
		return nil, fmt.Errorf("%s: %w (planned at revision %d, now %d)", p.Kind, ErrStalePlan, p.Revision, s.revision)
	}
	switch p.Kind {
	case DeleteAssetPlan:
		e := s.deleteAsset(p.Asset)
		return &e, nil
	case DeleteItemPlan:
		s.deleteItem(p.Item.ID)
		return nil, nil
	case ImportPlan:
		if p.Snapshot == nil {
			return nil, fmt.Errorf("import: %w: no snapshot", ErrSnapshotFormat)
		}
		s.commit(p.Snapshot.State())
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown plan %q", p.Kind)
	}
}

// PlanImport prepares the replacement of the whole inventory by a snapshot.
func (s *Store) PlanImport(snap *Snapshot) (Plan, error) {
	if snap == nil {
		return Plan{}, fmt.Errorf("import: %w: no snapshot", ErrSnapshotFormat)
	}
	if err := snap.Validate(); err != nil {
		return Plan{}, err
	}
	return Plan{Kind: ImportPlan, Revision: s.revision, Snapshot: snap}, nil
}

// PlanDeleteItem prepares the deletion of an item and of all its assets.
func (s *Store) PlanDeleteItem(itemID string) (Plan, error) {
	it, ok := s.state.Item(itemID)
	if !ok {
		return Plan{}, fmt.Errorf("delete item %q: %w", itemID, ErrUnknownItem)
	}
	return Plan{
		Kind:     DeleteItemPlan,
		Revision: s.revision,
		Item:     it,
		Assets:   s.state.AssetsOf(itemID, ""),
	}, nil
}

// deleteItem removes the item and its assets. The ledger is untouched.
func (s *Store) deleteItem(itemID string) {
	next := s.state.clone()
	next.Items = slices.DeleteFunc(next.Items, func(it Item) bool { return it.ID == itemID })
	next.Assets = slices.DeleteFunc(next.Assets, func(a Asset) bool { return a.ItemID == itemID })
	s.commit(next)
}
