package relay

import (
	"context"
	"sync"
)

// MemoryStore keeps queues in process memory. Used when no Redis URL is
// configured and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	queues map[string][]Item
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{queues: make(map[string][]Item)}
}

func (m *MemoryStore) Push(_ context.Context, userID string, item Item, capacity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := append(m.queues[userID], item)
	if len(q) > capacity {
		q = append([]Item(nil), q[len(q)-capacity:]...)
	}
	m.queues[userID] = q
	return nil
}

func (m *MemoryStore) Drain(_ context.Context, userID string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queues[userID]
	delete(m.queues, userID)
	return q, nil
}

func (m *MemoryStore) Len(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues[userID]), nil
}
