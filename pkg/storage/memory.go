package storage

import "sync"

// MemoryStore keeps the latest snapshot per area in process memory.
// Suitable for single-instance runs; data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

// Put stores snap as the latest snapshot for its area.
func (m *MemoryStore) Put(snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.Area] = snap
	return nil
}

// GetLatest returns the latest snapshot for area, if one exists.
func (m *MemoryStore) GetLatest(area string) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[area]
	return snap, ok, nil
}
