package storage

import (
	"context"
	"sync"
)

type entry struct {
	data []byte
	rev  int64
}

// Memory keeps values in process memory. Nothing is shared with other
// processes.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, 0, nil
	}
	return append([]byte(nil), e.data...), e.rev, nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte, expectedRev int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entries[key]
	if e.rev != expectedRev {
		return 0, ErrRevisionConflict
	}
	e = entry{data: append([]byte(nil), data...), rev: e.rev + 1}
	m.entries[key] = e
	return e.rev, nil
}

func (m *Memory) Close() error { return nil }
