package warehouse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// t0 is the time the fixture was last updated.
var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

// ticker returns a clock advancing by one minute at every call.
func ticker(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

// fixture returns a small inventory with one serialized and one bulk item.
func fixture() State {
	return State{
		Partners: []Partner{
			{ID: "p1", Name: "한빛상사", Role: Customer},
			{ID: "p2", Name: "대성가스", Role: Supplier, Contact: "02-123-4567"},
		},
		Items: []Item{
			{ID: "tank9", Name: "Tank-9in", Category: SerializedCategory, Quantity: 99, SafetyStock: 2, Price: decimal.NewFromInt(150000), LastUpdated: t0},
			{ID: "widget", Name: "Widget-A", Category: "부품", Quantity: 10, SafetyStock: 5, Price: decimal.NewFromInt(1500), LastUpdated: t0},
		},
	}
}

// newTestStore returns a store on the fixture with predictable ids and clock.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(fixture(), WithIDs(&Sequence{}), WithClock(ticker(t0)))
}

// quantity returns the reconciled quantity of an item.
func quantity(t *testing.T, s *Store, id string) int {
	t.Helper()
	it, ok := s.Item(id)
	if !ok {
		t.Fatalf("item %q not found", id)
	}
	return it.Quantity
}

// mustRegister registers a unit or fails the test.
func mustRegister(t *testing.T, s *Store, itemID, signal, partnerID string) Asset {
	t.Helper()
	a, _, err := s.RegisterAsset(itemID, signal, partnerID)
	if err != nil {
		t.Fatalf("RegisterAsset(%q, %q, %q) unexpected error: %v", itemID, signal, partnerID, err)
	}
	return a
}

// checkInvariants asserts the properties that must hold after any operation.
func checkInvariants(t *testing.T, st State) {
	t.Helper()
	for _, it := range Reconcile(st.Items, st.Assets) {
		if it.Mode() != Serialized {
			continue
		}
		if want := len(st.AssetsOf(it.ID, Available)); it.Quantity != want {
			t.Errorf("reconciled quantity of %q = %d, want %d available units", it.Name, it.Quantity, want)
		}
	}
	seen := make(map[string]string)
	for _, a := range st.Assets {
		if !a.Available() {
			continue
		}
		if other, ok := seen[a.SignalNumber]; ok {
			t.Errorf("signal %s is available twice: %s and %s", a.SignalNumber, other, a.ID)
		}
		seen[a.SignalNumber] = a.ID
	}
}
