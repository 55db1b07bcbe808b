package memory

import (
	"context"
	"sync"

	"quiz-game-client/internal/domain"
)

// CredStore is an in-memory implementation of auth.Store. Identities live
// only for the process lifetime; the default for single-run sessions.
type CredStore struct {
	mu sync.RWMutex
	id *domain.Identity
}

func NewCredStore() *CredStore {
	return &CredStore{}
}

func (s *CredStore) Get(_ context.Context) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.id == nil {
		return domain.Identity{}, domain.ErrNoCredentials
	}
	return *s.id, nil
}

func (s *CredStore) Put(_ context.Context, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = &id
	return nil
}

func (s *CredStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = nil
	return nil
}
