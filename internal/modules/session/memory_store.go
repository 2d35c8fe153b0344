package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded map with TTL eviction on read.
// Entries are stored serialized so callers never share state through the store.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, items: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	return m.put(s)
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	e, ok := m.items[id]
	if ok && m.expired(e) {
		delete(m.items, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var s Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	e, ok := m.items[s.ID]
	live := ok && !m.expired(e)
	m.mu.Unlock()
	if !live {
		return fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	return m.put(s)
}

// Sweep drops expired entries; Get already ignores them, this only frees memory.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.items {
		if m.expired(e) {
			delete(m.items, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *MemoryStore) put(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	m.mu.Lock()
	m.items[s.ID] = memoryEntry{data: data, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return m.ttl > 0 && !m.now().Before(e.expiresAt)
}
