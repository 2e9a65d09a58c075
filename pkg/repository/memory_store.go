package repository

import (
	"context"
	"sync"

	"github.com/tendant/simple-membership/pkg/domain"
)

// MemoryStore keeps memberships in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.Membership
	order   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*domain.Membership)}
}

// Get retrieves a copy of the membership stored under id.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.records[id]
	if !ok {
		return nil, domain.ErrMembershipNotFound
	}
	return m.Clone(), nil
}

// Put stores a copy of m under m.ID.
func (s *MemoryStore) Put(_ context.Context, m *domain.Membership) error {
	if err := checkRecord(m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[m.ID]; !exists {
		s.order = append(s.order, m.ID)
	}
	s.records[m.ID] = m.Clone()
	return nil
}

// Values returns copies of all memberships in insertion order.
func (s *MemoryStore) Values(_ context.Context) ([]*domain.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]*domain.Membership, 0, len(s.order))
	for _, id := range s.order {
		values = append(values, s.records[id].Clone())
	}
	return values, nil
}

// Len returns the number of stored memberships.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
