// Package namecache resolves display names for winget package identifiers and caches them.
package namecache

import (
	"sync"
	"time"
)

// Entry is one cached identifier to display-name mapping.
type Entry struct {
	PackageID   string    `json:"package_id"`
	CachedAt    time.Time `json:"cached_at"`
	DisplayName string    `json:"display_name"`
}

// Store persists cache entries. Implementations must be safe for concurrent use
// and must not lose entries written concurrently for different identifiers.
type Store interface {
	// Get returns the entry for id. A missing entry is not an error.
	Get(id string) (Entry, bool, error)
	// Put writes a single entry.
	Put(entry Entry) error
	// Close releases resources held by the store.
	Close() error
}

// MemoryStore keeps entries in process memory only.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns the entry for id.
func (m *MemoryStore) Get(id string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok, nil
}

// Put stores entry.
func (m *MemoryStore) Put(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.PackageID] = entry
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
