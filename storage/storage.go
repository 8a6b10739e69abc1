// Package storage saves the inventory in four keyed slots, one per
// collection, and loads it back at startup.
package storage

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"

	"github.com/etnz/warehouse"
)

// Slot keys.
const (
	ItemsKey    = "inventory_items_v4"
	LogsKey     = "inventory_logs_v4"
	PartnersKey = "inventory_partners_v4"
	AssetsKey   = "inventory_assets_v4"
)

// Keys lists the slot keys in save order.
var Keys = []string{ItemsKey, LogsKey, PartnersKey, AssetsKey}

// ErrNotFound is returned by Slots.Load for a slot that was never saved.
var ErrNotFound = errors.New("slot not found")

// Slots is a durable key/value store holding the JSON of each collection.
type Slots interface {
	// Load returns the content of a slot, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save writes several slots together.
	Save(ctx context.Context, slots map[string][]byte) error
	Close() error
}

//go:embed defaults/*.json
var defaults embed.FS

// Default returns the built-in content of a slot.
func Default(key string) []byte {
	data, err := defaults.ReadFile(path.Join("defaults", key+".json"))
	if err != nil {
		return []byte("[]")
	}
	return data
}

// DefaultState returns the built-in data set.
func DefaultState() warehouse.State {
	var st warehouse.State
	mustDecode(Default(ItemsKey), &st.Items)
	mustDecode(Default(LogsKey), &st.Logs)
	mustDecode(Default(PartnersKey), &st.Partners)
	mustDecode(Default(AssetsKey), &st.Assets)
	return st
}

func mustDecode[T any](data []byte, dst *[]T) {
	if err := json.Unmarshal(data, dst); err != nil {
		panic(fmt.Sprintf("invalid built-in data: %v", err))
	}
}

// Load reads the four slots. A slot that is missing or cannot be parsed is
// replaced by its built-in default, independently of the others.
func Load(ctx context.Context, s Slots) (warehouse.State, error) {
	var st warehouse.State
	err := errors.Join(
		loadSlot(ctx, s, ItemsKey, &st.Items),
		loadSlot(ctx, s, LogsKey, &st.Logs),
		loadSlot(ctx, s, PartnersKey, &st.Partners),
		loadSlot(ctx, s, AssetsKey, &st.Assets),
	)
	if err != nil {
		return warehouse.State{}, err
	}
	return st, nil
}

func loadSlot[T any](ctx context.Context, s Slots, key string, dst *[]T) error {
	data, err := s.Load(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Printf("slot %s is empty, using the built-in data", key)
		mustDecode(Default(key), dst)
		return nil
	case err != nil:
		return fmt.Errorf("cannot load %s: %w", key, err)
	}
	var v []T
	if err := json.Unmarshal(data, &v); err != nil || v == nil {
		log.Printf("slot %s is unreadable (%v), using the built-in data", key, err)
		mustDecode(Default(key), dst)
		return nil
	}
	*dst = v
	return nil
}

// Encode returns the content of the four slots for a state.
func Encode(st warehouse.State) (map[string][]byte, error) {
	slots := make(map[string][]byte, len(Keys))
	var errs []error
	put := func(key string, v any, n int) {
		if n == 0 {
			slots[key] = []byte("[]")
			return
		}
		data, err := json.Marshal(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("cannot encode %s: %w", key, err))
			return
		}
		slots[key] = data
	}
	put(ItemsKey, st.Items, len(st.Items))
	put(LogsKey, st.Logs, len(st.Logs))
	put(PartnersKey, st.Partners, len(st.Partners))
	put(AssetsKey, st.Assets, len(st.Assets))
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return slots, nil
}

// Save writes the four slots of a state together.
func Save(ctx context.Context, s Slots, st warehouse.State) error {
	slots, err := Encode(st)
	if err != nil {
		return err
	}
	return s.Save(ctx, slots)
}

// Open opens a slot backend by name: "dir" keeps one JSON file per slot in
// location, "sqlite" keeps them in a table of the database file location.
func Open(kind, location string) (Slots, error) {
	switch kind {
	case "dir", "":
		return NewDir(location)
	case "sqlite":
		return OpenSQLite(location)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q, want dir, sqlite or memory", kind)
	}
}
