// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/solaunch/launchpad/internal/storage"
	"github.com/solaunch/launchpad/internal/storage/models"
)

// Store is a map-backed storage.Store used by tests and by the
// devnet-less run mode when no postgres DSN is configured.
type Store struct {
	mu     sync.RWMutex
	pools  map[string]*models.PoolRecord
	events []*models.TransitionEvent
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		pools: make(map[string]*models.PoolRecord),
	}
}

func (s *Store) SavePool(_ context.Context, record *models.PoolRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pools[record.PoolID]; exists {
		return fmt.Errorf("pool %s already stored", record.PoolID)
	}
	cp := *record
	s.pools[record.PoolID] = &cp
	return nil
}

func (s *Store) UpdatePool(_ context.Context, record *models.PoolRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pools[record.PoolID]; !exists {
		return storage.ErrNotFound
	}
	cp := *record
	s.pools[record.PoolID] = &cp
	return nil
}

func (s *Store) GetPool(_ context.Context, poolID string) (*models.PoolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.pools[poolID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *Store) ListPools(_ context.Context, limit, offset int) ([]*models.PoolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*models.PoolRecord, 0, len(s.pools))
	for _, record := range s.pools {
		cp := *record
		records = append(records, &cp)
	}
	return paginate(records, limit, offset), nil
}

func (s *Store) AppendEvent(_ context.Context, event *models.TransitionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *event
	s.events = append(s.events, &cp)
	return nil
}

func (s *Store) ListEvents(_ context.Context, poolID string, limit, offset int) ([]*models.TransitionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.TransitionEvent
	for _, event := range s.events {
		if event.PoolID == poolID {
			cp := *event
			matched = append(matched, &cp)
		}
	}
	return paginate(matched, limit, offset), nil
}

func (s *Store) RunMigrations() error { return nil }

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
