package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/warehouse"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefaultStateIsConsistent(t *testing.T) {
	st := DefaultState()
	if err := warehouse.NewSnapshot(st, time.Now()).Validate(); err != nil {
		t.Fatalf("built-in data is invalid: %v", err)
	}
	items := st.Reconciled()
	want := map[string]int{"1": 2, "2": 1, "3": 24}
	for _, it := range items {
		if q, ok := want[it.ID]; ok && it.Quantity != q {
			t.Errorf("built-in quantity of %s = %d, want %d", it.Name, it.Quantity, q)
		}
	}
}

func TestLoadFallsBackPerSlot(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Save(ctx, map[string][]byte{
		ItemsKey:  []byte(`[{"id":"x","name":"Only item","category":"부품","quantity":1,"safetyStock":0,"price":10,"lastUpdated":"2025-01-01T00:00:00Z"}]`),
		LogsKey:   []byte(`{not json`),
		AssetsKey: []byte(`null`),
		// partners never saved
	})

	st, err := Load(ctx, m)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	def := DefaultState()
	if len(st.Items) != 1 || st.Items[0].ID != "x" {
		t.Errorf("items = %+v, want the saved item", st.Items)
	}
	if diff := cmp.Diff(def.Logs, st.Logs); diff != "" {
		t.Errorf("unparseable logs did not fall back (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(def.Partners, st.Partners); diff != "" {
		t.Errorf("missing partners did not fall back (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(def.Assets, st.Assets); diff != "" {
		t.Errorf("null assets did not fall back (-want +got):\n%s", diff)
	}
}

func TestDirFailedSaveKeepsFiles(t *testing.T) {
	ctx := context.Background()
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Save(ctx, map[string][]byte{ItemsKey: []byte("[]")}); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	// a key that cannot name a file fails the whole save
	err = d.Save(ctx, map[string][]byte{ItemsKey: []byte(`[{"id":"x"}]`), "bad/key": []byte("[]")})
	if err == nil {
		t.Fatal("Save() with an invalid key want error")
	}
	got, err := d.Load(ctx, ItemsKey)
	if err != nil || string(got) != "[]" {
		t.Errorf("Load() after a failed save = %q, %v, want the previous []", got, err)
	}
	left, _ := filepath.Glob(filepath.Join(d.path, "*.tmp"))
	if len(left) != 0 {
		t.Errorf("failed save left temporary files %v", left)
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backends := map[string]func() (Slots, error){
		"dir":    func() (Slots, error) { return NewDir(filepath.Join(dir, "slots")) },
		"sqlite": func() (Slots, error) { return OpenSQLite(filepath.Join(dir, "warehouse.db")) },
		"memory": func() (Slots, error) { return NewMemory(), nil },
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s, err := open()
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer s.Close()

			if _, err := s.Load(ctx, ItemsKey); err != ErrNotFound {
				t.Errorf("Load() on a new backend error = %v, want ErrNotFound", err)
			}

			st := DefaultState()
			st.Logs = nil // an empty ledger is saved as []
			if err := Save(ctx, s, st); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}
			// Saving twice overwrites.
			if err := Save(ctx, s, st); err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}
			got, err := Load(ctx, s)
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if diff := cmp.Diff(st, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
			}
			if len(got.Logs) != 0 {
				t.Errorf("empty ledger was replaced by the built-in one")
			}
		})
	}
}

func TestPersister(t *testing.T) {
	m := NewMemory()
	s := warehouse.NewStore(DefaultState())
	p := NewPersister(m)
	s.Subscribe(p.Observe)

	for i := 0; i < 20; i++ {
		if _, err := s.ProcessTransaction(warehouse.Transaction{ItemID: "5", Type: warehouse.Out, Quantity: 1, PartnerID: "p1"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush() unexpected error: %v", err)
	}
	saved, err := Load(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.State(), saved, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("saved state is not the latest (-store +saved):\n%s", diff)
	}
	if n := m.Saves(); n < 1 || n > 20 {
		t.Errorf("saves = %d, want between 1 and 20", n)
	}

	if _, err := s.ProcessTransaction(warehouse.Transaction{ItemID: "5", Type: warehouse.In, Quantity: 30, PartnerID: "p2"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	saved, _ = Load(context.Background(), m)
	if got := saved.Items[4].Quantity; got != 50 {
		t.Errorf("quantity saved at close = %d, want 50", got)
	}
	// Commits after Close are ignored.
	s.ProcessTransaction(warehouse.Transaction{ItemID: "5", Type: warehouse.In, Quantity: 1, PartnerID: "p2"})
}

func TestOpen(t *testing.T) {
	if _, err := Open("floppy", t.TempDir()); err == nil {
		t.Errorf("Open(floppy) want error")
	}
	s, err := Open("dir", t.TempDir())
	if err != nil {
		t.Fatalf("Open(dir) unexpected error: %v", err)
	}
	s.Close()
}
