package storage

import (
	"context"
	"sync"

	"github.com/example/reviewbot/pkg/models"
)

// MemoryStore keeps the dataset in process memory. It is used for tests and
// dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	data  models.Dataset
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return models.Dataset{}, nil
	}
	return s.data.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, data models.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error {
	return nil
}
