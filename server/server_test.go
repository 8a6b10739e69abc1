package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/agent"
	"github.com/shopspring/decimal"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func newServer(t *testing.T) (*Server, *warehouse.Store) {
	t.Helper()
	st := warehouse.State{
		Partners: []warehouse.Partner{{ID: "p1", Name: "한빛상사", Role: warehouse.Customer}},
		Items: []warehouse.Item{
			{ID: "tank", Name: "Tank-9in", Category: warehouse.SerializedCategory, SafetyStock: 1, Price: decimal.NewFromInt(150000), LastUpdated: t0},
			{ID: "widget", Name: "Widget-A", Category: "부품", Quantity: 10, SafetyStock: 5, Price: decimal.NewFromInt(1500), LastUpdated: t0},
		},
		Assets: []warehouse.Asset{
			{ID: "a1", ItemID: "tank", SignalNumber: "S-001", Status: warehouse.Available, RegisteredAt: t0},
		},
	}
	n := 0
	clock := func() time.Time { n++; return t0.Add(time.Duration(n) * time.Minute) }
	store := warehouse.NewStore(st, warehouse.WithIDs(&warehouse.Sequence{}), warehouse.WithClock(clock))
	return New(store, Config{Currency: "KRW", Location: time.UTC}), store
}

// envelope is the body of every JSON answer.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// call sends a request and decodes the JSON answer.
func call(t *testing.T, s *Server, method, path string, body any) (int, envelope) {
	t.Helper()
	resp := send(t, s, method, path, body)
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: cannot decode the answer: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func send(t *testing.T, s *Server, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("cannot decode data %s: %v", env.Data, err)
	}
	return v
}

func TestItems(t *testing.T) {
	s, _ := newServer(t)

	code, env := call(t, s, "GET", "/api/v1/items", nil)
	if code != http.StatusOK {
		t.Fatalf("GET items = %d %s", code, env.Error)
	}
	items := decode[[]warehouse.Item](t, env)
	if len(items) != 2 || items[0].Quantity != 1 {
		t.Errorf("items = %+v, want 2 items with the tank reconciled to 1", items)
	}

	code, env = call(t, s, "POST", "/api/v1/items", map[string]any{"name": " Bolt-M8 ", "category": "부품", "quantity": 3, "safetyStock": 5, "price": 100})
	if code != http.StatusCreated {
		t.Fatalf("POST items = %d %s", code, env.Error)
	}
	created := decode[warehouse.Item](t, env)
	if created.ID == "" || created.Name != "Bolt-M8" {
		t.Errorf("created item = %+v, want a trimmed name and an id", created)
	}

	code, env = call(t, s, "GET", "/api/v1/items?low=true", nil)
	if code != http.StatusOK {
		t.Fatalf("GET low items = %d %s", code, env.Error)
	}
	if low := decode[[]warehouse.Item](t, env); len(low) != 2 {
		t.Errorf("low stock items = %+v, want the tank and the bolt", low)
	}

	code, env = call(t, s, "PUT", "/api/v1/items/widget", map[string]any{"name": "Widget-B", "category": "부품", "quantity": 12, "price": 1500})
	if code != http.StatusOK || decode[warehouse.Item](t, env).Name != "Widget-B" {
		t.Errorf("PUT item = %d %s", code, env.Data)
	}

	tests := []struct {
		method, path string
		body         any
		want         int
	}{
		{"GET", "/api/v1/items/nope", nil, http.StatusNotFound},
		{"PUT", "/api/v1/items/nope", map[string]any{"name": "x"}, http.StatusNotFound},
		{"POST", "/api/v1/items", map[string]any{"category": "부품"}, http.StatusBadRequest},
		{"POST", "/api/v1/items", map[string]any{"id": "widget", "name": "again"}, http.StatusConflict},
		{"POST", "/api/v1/items", []byte("{"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		code, env := call(t, s, tt.method, tt.path, tt.body)
		if code != tt.want || env.Success || env.Error == "" {
			t.Errorf("%s %s = %d %+v, want %d with an error", tt.method, tt.path, code, env, tt.want)
		}
	}
}

func TestPartners(t *testing.T) {
	s, store := newServer(t)

	code, env := call(t, s, "POST", "/api/v1/partners", map[string]any{"name": "대성가스", "type": "SUPPLIER"})
	if code != http.StatusCreated {
		t.Fatalf("POST partners = %d %s", code, env.Error)
	}
	p := decode[warehouse.Partner](t, env)

	if code, env := call(t, s, "POST", "/api/v1/partners", map[string]any{"name": "x", "type": "FRIEND"}); code != http.StatusBadRequest {
		t.Errorf("POST partner with an unknown role = %d %s", code, env.Error)
	}
	if code, env := call(t, s, "DELETE", "/api/v1/partners/"+p.ID, nil); code != http.StatusOK {
		t.Errorf("DELETE partner = %d %s", code, env.Error)
	}
	if _, found := store.State().Partner(p.ID); found {
		t.Errorf("partner %s still exists", p.ID)
	}
	if code, _ := call(t, s, "DELETE", "/api/v1/partners/"+p.ID, nil); code != http.StatusNotFound {
		t.Errorf("DELETE deleted partner = %d, want 404", code)
	}
}

func TestUpdatesKeepIDs(t *testing.T) {
	s, store := newServer(t)

	tests := []struct {
		path  string
		body  any
		found func() bool
	}{
		{
			path:  "/api/v1/items/widget",
			body:  map[string]any{"name": "Widget-B", "category": "부품", "quantity": 12, "price": 1500},
			found: func() bool { _, ok := store.Item("widget"); return ok },
		},
		{
			path:  "/api/v1/partners/p1",
			body:  map[string]any{"name": "한빛상사2", "type": "BOTH"},
			found: func() bool { _, ok := store.State().Partner("p1"); return ok },
		},
	}
	for _, tt := range tests {
		if code, env := call(t, s, "PUT", tt.path, tt.body); code != http.StatusOK {
			t.Fatalf("PUT %s = %d %s", tt.path, code, env.Error)
		}
		// later requests reuse the request buffers
		for i := 0; i < 5; i++ {
			call(t, s, "GET", "/api/v1/items/zzzzzz", nil)
			call(t, s, "GET", "/api/v1/partners", nil)
		}
		if !tt.found() {
			t.Errorf("after PUT %s the record is no longer found, state: %+v", tt.path, store.State())
		}
	}
}

func TestTransactions(t *testing.T) {
	s, store := newServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bulk out", map[string]any{"itemId": "widget", "type": "OUT", "quantity": 3, "partnerId": "p1"}, http.StatusCreated},
		{"ship by signal", map[string]any{"itemId": "tank", "type": "out", "signalNumber": "S-001", "partnerId": "p1"}, http.StatusCreated},
		{"ship again", map[string]any{"itemId": "tank", "type": "OUT", "signalNumber": "S-001", "partnerId": "p1"}, http.StatusConflict},
		{"receive back", map[string]any{"itemId": "tank", "type": "IN", "signalNumber": "S-001", "partnerId": "p1"}, http.StatusCreated},
		{"receive new signal", map[string]any{"itemId": "tank", "type": "IN", "signalNumber": "S-002"}, http.StatusCreated},
		{"unknown partner", map[string]any{"itemId": "widget", "type": "IN", "quantity": 1, "partnerId": "p9"}, http.StatusNotFound},
		{"unknown item", map[string]any{"itemId": "gear", "type": "IN", "quantity": 1}, http.StatusNotFound},
		{"no quantity", map[string]any{"itemId": "widget", "type": "IN"}, http.StatusBadRequest},
		{"no direction", map[string]any{"itemId": "widget", "quantity": 1}, http.StatusBadRequest},
		{"no signal", map[string]any{"itemId": "tank", "type": "OUT"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(store.Logs())
			code, env := call(t, s, "POST", "/api/v1/transactions", tt.body)
			if code != tt.want {
				t.Fatalf("POST transaction = %d %s, want %d", code, env.Error, tt.want)
			}
			grew := len(store.Logs()) - before
			if code == http.StatusCreated {
				e := decode[warehouse.LogEntry](t, env)
				if grew != 1 || store.Logs()[0].ID != e.ID {
					t.Errorf("ledger grew by %d, want the returned entry %s on top", grew, e.ID)
				}
			} else if grew != 0 {
				t.Errorf("rejected transaction wrote %d entries", grew)
			}
		})
	}

	if it, _ := store.Item("widget"); it.Quantity != 7 {
		t.Errorf("widget quantity = %d, want 7", it.Quantity)
	}
	if it, _ := store.Item("tank"); it.Quantity != 2 {
		t.Errorf("tank quantity = %d, want 2", it.Quantity)
	}

	code, env := call(t, s, "GET", "/api/v1/logs?q=한빛", nil)
	if code != http.StatusOK {
		t.Fatalf("GET logs = %d %s", code, env.Error)
	}
	if logs := decode[[]warehouse.LogEntry](t, env); len(logs) != 3 {
		t.Errorf("logs matching the partner = %d, want 3", len(logs))
	}
	if code, _ := call(t, s, "GET", "/api/v1/logs?from=someday", nil); code != http.StatusBadRequest {
		t.Errorf("GET logs with a bad date = %d, want 400", code)
	}
}

func TestAssets(t *testing.T) {
	s, _ := newServer(t)

	code, env := call(t, s, "POST", "/api/v1/assets", map[string]any{"itemId": "tank", "signalNumber": "S-002", "partnerId": "p1"})
	if code != http.StatusCreated {
		t.Fatalf("POST assets = %d %s", code, env.Error)
	}
	if code, _ := call(t, s, "POST", "/api/v1/assets", map[string]any{"itemId": "tank", "signalNumber": "S-002"}); code != http.StatusConflict {
		t.Errorf("duplicate registration = %d, want 409", code)
	}
	if code, _ := call(t, s, "POST", "/api/v1/assets", map[string]any{"itemId": "widget", "signalNumber": "W-1"}); code != http.StatusBadRequest {
		t.Errorf("registration of a bulk item = %d, want 400", code)
	}

	code, env = call(t, s, "GET", "/api/v1/assets?item=tank&status=available", nil)
	if code != http.StatusOK {
		t.Fatalf("GET assets = %d %s", code, env.Error)
	}
	if assets := decode[[]warehouse.Asset](t, env); len(assets) != 2 {
		t.Errorf("available tanks = %+v, want 2", assets)
	}
	if code, _ := call(t, s, "GET", "/api/v1/assets?status=lost", nil); code != http.StatusBadRequest {
		t.Errorf("GET assets with an unknown status = %d, want 400", code)
	}
}

type planData struct {
	Token string             `json:"token"`
	Kind  warehouse.PlanKind `json:"kind"`
}

func TestPlans(t *testing.T) {
	s, store := newServer(t)

	code, env := call(t, s, "DELETE", "/api/v1/assets/a1", nil)
	if code != http.StatusAccepted {
		t.Fatalf("DELETE asset = %d %s", code, env.Error)
	}
	del := decode[planData](t, env)
	if del.Kind != warehouse.DeleteAssetPlan || del.Token == "" || !strings.Contains(env.Message, "S-001") {
		t.Errorf("plan = %+v %q, want a delete-asset plan describing S-001", del, env.Message)
	}
	if _, found := store.State().Asset("a1"); !found {
		t.Fatalf("planning deleted the asset")
	}

	code, env = call(t, s, "DELETE", "/api/v1/items/tank", nil)
	if code != http.StatusAccepted {
		t.Fatalf("DELETE item = %d %s", code, env.Error)
	}
	item := decode[planData](t, env)

	code, env = call(t, s, "POST", "/api/v1/plans/"+del.Token+"/commit", nil)
	if code != http.StatusOK {
		t.Fatalf("commit = %d %s", code, env.Error)
	}
	if e := decode[warehouse.LogEntry](t, env); !e.IsCorrection() || e.SignalNumber != "S-001" {
		t.Errorf("deletion entry = %+v, want a correction of S-001", e)
	}
	if code, _ := call(t, s, "POST", "/api/v1/plans/"+del.Token+"/commit", nil); code != http.StatusNotFound {
		t.Errorf("second commit = %d, want 404", code)
	}

	// The item plan was computed before the asset deletion.
	if code, _ := call(t, s, "POST", "/api/v1/plans/"+item.Token+"/commit", nil); code != http.StatusConflict {
		t.Errorf("stale commit = %d, want 409", code)
	}
	if _, found := store.State().Item("tank"); !found {
		t.Errorf("stale plan deleted the item")
	}

	code, env = call(t, s, "DELETE", "/api/v1/items/tank", nil)
	if code != http.StatusAccepted {
		t.Fatalf("DELETE item = %d %s", code, env.Error)
	}
	item = decode[planData](t, env)
	if code, _ := call(t, s, "DELETE", "/api/v1/plans/"+item.Token, nil); code != http.StatusOK {
		t.Errorf("cancel = %d, want 200", code)
	}
	if code, _ := call(t, s, "POST", "/api/v1/plans/"+item.Token+"/commit", nil); code != http.StatusNotFound {
		t.Errorf("commit of a cancelled plan = %d, want 404", code)
	}
	if code, _ := call(t, s, "DELETE", "/api/v1/items/gear", nil); code != http.StatusNotFound {
		t.Errorf("DELETE unknown item = %d, want 404", code)
	}
}

func TestExportImport(t *testing.T) {
	s, store := newServer(t)
	if code, env := call(t, s, "POST", "/api/v1/transactions", map[string]any{"itemId": "widget", "type": "IN", "quantity": 5}); code != http.StatusCreated {
		t.Fatalf("POST transaction = %d %s", code, env.Error)
	}

	resp := send(t, s, "GET", "/api/v1/export", nil)
	backup, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("GET export = %d %v", resp.StatusCode, err)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "inventory_backup_") {
		t.Errorf("Content-Disposition = %q, want an attachment", cd)
	}
	snap, err := warehouse.DecodeSnapshot(bytes.NewReader(backup))
	if err != nil {
		t.Fatalf("exported snapshot does not decode: %v", err)
	}
	if len(snap.Logs) != 1 || len(snap.Items) != 2 {
		t.Errorf("snapshot = %d items %d logs, want 2 and 1", len(snap.Items), len(snap.Logs))
	}

	// Change the state, then restore the backup.
	if code, env := call(t, s, "POST", "/api/v1/items", map[string]any{"name": "Bolt-M8"}); code != http.StatusCreated {
		t.Fatalf("POST items = %d %s", code, env.Error)
	}
	code, env := call(t, s, "POST", "/api/v1/import", backup)
	if code != http.StatusAccepted {
		t.Fatalf("POST import = %d %s", code, env.Error)
	}
	plan := decode[planData](t, env)
	if len(store.Items()) != 3 {
		t.Fatalf("planning the import changed the items")
	}
	if code, env := call(t, s, "POST", "/api/v1/plans/"+plan.Token+"/commit", nil); code != http.StatusOK {
		t.Fatalf("commit import = %d %s", code, env.Error)
	}
	if len(store.Items()) != 2 || len(store.Logs()) != 1 {
		t.Errorf("after import: %d items %d logs, want 2 and 1", len(store.Items()), len(store.Logs()))
	}

	for _, body := range []string{`{"items":[],"logs":[],"partners":[]}`, `not json`, `{"items":null,"logs":[],"partners":[],"assets":[]}`} {
		if code, _ := call(t, s, "POST", "/api/v1/import", []byte(body)); code != http.StatusBadRequest {
			t.Errorf("POST import %s = %d, want 400", body, code)
		}
	}
}

func TestReports(t *testing.T) {
	s, _ := newServer(t)
	if code, env := call(t, s, "POST", "/api/v1/transactions", map[string]any{"itemId": "widget", "type": "OUT", "quantity": 2, "partnerId": "p1"}); code != http.StatusCreated {
		t.Fatalf("POST transaction = %d %s", code, env.Error)
	}

	code, env := call(t, s, "GET", "/api/v1/reports/daily/2025-03-03", nil)
	if code != http.StatusOK {
		t.Fatalf("GET daily = %d %s", code, env.Error)
	}
	if r := decode[warehouse.DailyReport](t, env); len(r.Entries) != 1 || r.Items[0].Out != 2 {
		t.Errorf("daily report = %+v, want the widget shipment", r)
	}

	resp := send(t, s, "GET", "/api/v1/reports/daily/2025-03-03?format=tsv", nil)
	tsv, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if want := "구분\t품목명\t거래처\t수량\n출고\tWidget-A\t한빛상사\t2\n"; string(tsv) != want {
		t.Errorf("daily tsv = %q, want %q", tsv, want)
	}

	for _, path := range []string{"/api/v1/reports/daily/2025-03-03?format=xlsx", "/api/v1/reports/inventory"} {
		resp := send(t, s, "GET", path, nil)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, []byte("PK")) {
			t.Errorf("GET %s = %d, want a workbook", path, resp.StatusCode)
		}
	}
	if code, _ := call(t, s, "GET", "/api/v1/reports/daily/someday", nil); code != http.StatusBadRequest {
		t.Errorf("GET daily with a bad date = %d, want 400", code)
	}

	code, env = call(t, s, "GET", "/api/v1/stats", nil)
	if code != http.StatusOK {
		t.Fatalf("GET stats = %d %s", code, env.Error)
	}
	stats := decode[struct {
		Stats struct {
			TotalItems    int `json:"totalItems"`
			TotalQuantity int `json:"totalQuantity"`
			LowStockCount int `json:"lowStockCount"`
		} `json:"stats"`
		Out int `json:"out"`
	}](t, env)
	if stats.Stats.TotalItems != 2 || stats.Stats.TotalQuantity != 9 || stats.Stats.LowStockCount != 1 || stats.Out != 1 {
		t.Errorf("stats = %+v", stats)
	}

	code, env = call(t, s, "GET", `/api/v1/query?path=$.assets[0].signalNumber`, nil)
	if code != http.StatusOK || string(env.Data) != `"S-001"` {
		t.Errorf("GET query = %d %s, want S-001", code, env.Data)
	}
}

func TestSummary(t *testing.T) {
	s, _ := newServer(t)
	code, env := call(t, s, "POST", "/api/v1/summary", nil)
	if code != http.StatusOK {
		t.Fatalf("POST summary = %d %s", code, env.Error)
	}
	if got := decode[map[string]string](t, env)["analysis"]; got != agent.FailedAnalysis {
		t.Errorf("analysis without a model = %q, want %q", got, agent.FailedAnalysis)
	}
}
