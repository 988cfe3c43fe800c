package preference

import (
	"sync"

	"github.com/zhouzirui/billboard/backend/internal/model/preference"
)

// MemoryBackend is the name of the in-process store.
const MemoryBackend = "memory"

// MemoryStore keeps records for the life of the process. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []preference.Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make([]preference.Record, 0, 32)}
}

// Append adds rec and returns the new record count.
func (m *MemoryStore) Append(rec preference.Record) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return len(m.records)
}

// List returns a copy of every record in insertion order.
func (m *MemoryStore) List() []preference.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]preference.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len reports the record count.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
