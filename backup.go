package warehouse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// SnapshotVersion is written in every exported snapshot. It is informational,
// no migration depends on it.
const SnapshotVersion = "4.0"

// Snapshot is the exported form of the whole inventory.
type Snapshot struct {
	Items     []Item
	Logs      []LogEntry
	Partners  []Partner
	Assets    []Asset
	Version   string
	Timestamp time.Time
}

// NewSnapshot captures a state at the given time.
func NewSnapshot(st State, at time.Time) *Snapshot {
	return &Snapshot{
		Items:     st.Items,
		Logs:      st.Logs,
		Partners:  st.Partners,
		Assets:    st.Assets,
		Version:   SnapshotVersion,
		Timestamp: at,
	}
}

// State returns a copy of the four collections of the snapshot.
func (s *Snapshot) State() State {
	return State{
		Partners: slices.Clone(s.Partners),
		Items:    slices.Clone(s.Items),
		Assets:   slices.Clone(s.Assets),
		Logs:     slices.Clone(s.Logs),
	}
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	appendArray(&w, "items", s.Items)
	appendArray(&w, "logs", s.Logs)
	appendArray(&w, "partners", s.Partners)
	appendArray(&w, "assets", s.Assets)
	w.Append("version", s.Version)
	w.Append("timestamp", s.Timestamp)
	return w.MarshalJSON()
}

// ExportSnapshot writes the state as an indented JSON snapshot.
func ExportSnapshot(w io.Writer, st State, at time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewSnapshot(st, at)); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a JSON snapshot.
//
// The four collections items, logs, partners and assets must all be present
// and not null, and every record must be valid, otherwise the error wraps
// ErrSnapshotFormat. The version and timestamp are informational.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var raw struct {
		Items     json.RawMessage `json:"items"`
		Logs      json.RawMessage `json:"logs"`
		Partners  json.RawMessage `json:"partners"`
		Assets    json.RawMessage `json:"assets"`
		Version   any             `json:"version"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFormat, err)
	}

	var missing []string
	for _, c := range []struct {
		name string
		data json.RawMessage
	}{{"items", raw.Items}, {"logs", raw.Logs}, {"partners", raw.Partners}, {"assets", raw.Assets}} {
		if d := bytes.TrimSpace(c.data); len(d) == 0 || string(d) == "null" {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrSnapshotFormat, strings.Join(missing, ", "))
	}

	snap := new(Snapshot)
	if err := errors.Join(
		decodeCollection("items", raw.Items, &snap.Items),
		decodeCollection("logs", raw.Logs, &snap.Logs),
		decodeCollection("partners", raw.Partners, &snap.Partners),
		decodeCollection("assets", raw.Assets, &snap.Assets),
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotFormat, err)
	}
	if raw.Version != nil {
		snap.Version = fmt.Sprint(raw.Version)
	}
	// An unreadable timestamp is not worth rejecting a backup for.
	_ = json.Unmarshal(raw.Timestamp, &snap.Timestamp)

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

func decodeCollection[T any](name string, data json.RawMessage, dst *[]T) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%s: %v", name, err)
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}

// Validate checks every record of the snapshot, the uniqueness of the ids and
// of the signal numbers in stock. The error wraps ErrSnapshotFormat.
func (s *Snapshot) Validate() error {
	var errs []error
	check := func(kind string, i int, v any) {
		if err := Validate(v); err != nil {
			errs = append(errs, fmt.Errorf("%s[%d]: %w", kind, i, err))
		}
	}
	ids := make(map[string]bool)
	unique := func(kind, id string) {
		if ids[kind+"/"+id] {
			errs = append(errs, fmt.Errorf("%s %q: %w", kind, id, ErrDuplicateID))
		}
		ids[kind+"/"+id] = true
	}
	for i, it := range s.Items {
		check("items", i, it)
		unique("items", it.ID)
	}
	for i, p := range s.Partners {
		check("partners", i, p)
		unique("partners", p.ID)
	}
	inStock := make(map[string]bool)
	for i, a := range s.Assets {
		check("assets", i, a)
		unique("assets", a.ID)
		if a.Available() {
			if inStock[a.SignalNumber] {
				errs = append(errs, fmt.Errorf("assets[%d]: signal %s: %w", i, a.SignalNumber, ErrDuplicateSignal))
			}
			inStock[a.SignalNumber] = true
		}
	}
	for i, e := range s.Logs {
		check("logs", i, e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrSnapshotFormat, errors.Join(errs...))
	}
	return nil
}
