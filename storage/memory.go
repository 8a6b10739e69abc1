package storage

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory keeps the slots in memory. Saves counts the calls to Save.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
	saves int
}

func NewMemory() *Memory { return &Memory{slots: make(map[string][]byte)} }

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

func (m *Memory) Save(ctx context.Context, slots map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.slots, slots)
	m.saves++
	return nil
}

// Saves returns the number of completed saves.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }
