package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

var _ domain.SnapshotStore = (*MemorySnapshotStore)(nil)

// MemorySnapshotStore keeps the last snapshot in process. Used when no
// external storage is configured, and in tests.
type MemorySnapshotStore struct {
	data  []byte
	saves int

	mu sync.Mutex
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemorySnapshotStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemorySnapshotStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
