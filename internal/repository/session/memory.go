package session

import (
	"context"
	"sync"
	"time"

	"carbonpay/internal/domain"
)

type memoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemory() Repository {
	return &memoryRepo{sessions: make(map[string]domain.Session)}
}

func (r *memoryRepo) Create(_ context.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return domain.ErrAlreadyExists
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memoryRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *memoryRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
