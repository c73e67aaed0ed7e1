package store

import (
	"errors"
	"sync"

	"github.com/parkmon/swiss-parking-monitor/internal/parking"
)

// ErrNotFound is returned when no snapshot has been collected yet for a
// city.
var ErrNotFound = errors.New("no parking data for city")

// MemoryStore keeps the most recent snapshot per city for the status API.
// Only the latest cycle is retained; the on-disk store owns history.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city id
	latest map[string]parking.Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		latest: make(map[string]parking.Snapshot),
	}
}

// SetLatest replaces the retained snapshot for the snapshot's city.
// A nil snapshot is ignored.
func (s *MemoryStore) SetLatest(snapshot *parking.Snapshot) {
	if snapshot == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[snapshot.City] = *snapshot
}

// GetLatest returns the most recent snapshot for a city.
func (s *MemoryStore) GetLatest(city string) (parking.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.latest[city]
	if !ok {
		return parking.Snapshot{}, ErrNotFound
	}
	return snapshot, nil
}
