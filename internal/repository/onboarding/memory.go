package onboarding

import (
	"context"
	"sync"

	"carbonpay/internal/domain"
)

type memoryRepo struct {
	mu      sync.RWMutex
	records []domain.OnboardingRecord
	byOwner map[string]int
}

func NewMemory() Repository {
	return &memoryRepo{byOwner: make(map[string]int)}
}

func (r *memoryRepo) Create(_ context.Context, rec domain.OnboardingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byOwner[rec.OwnerID]; ok {
		return domain.ErrAlreadyExists
	}
	rec.OnboardingForm = rec.OnboardingForm.Clone()
	r.byOwner[rec.OwnerID] = len(r.records)
	r.records = append(r.records, rec)
	return nil
}

func (r *memoryRepo) GetByOwner(_ context.Context, ownerID string) (*domain.OnboardingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byOwner[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyRecord(r.records[idx]), nil
}

func (r *memoryRepo) List(_ context.Context) ([]domain.OnboardingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.OnboardingRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *copyRecord(rec))
	}
	return out, nil
}

func (r *memoryRepo) First(_ context.Context) (*domain.OnboardingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.records) == 0 {
		return nil, domain.ErrNotFound
	}
	return copyRecord(r.records[0]), nil
}

func copyRecord(rec domain.OnboardingRecord) *domain.OnboardingRecord {
	rec.OnboardingForm = rec.OnboardingForm.Clone()
	return &rec
}
