package onboarding

import (
	"context"

	"carbonpay/internal/domain"
)

// Repository stores completed onboardings, at most one per owner.
type Repository interface {
	// Create returns domain.ErrAlreadyExists when the owner already has a record.
	Create(ctx context.Context, rec domain.OnboardingRecord) error
	GetByOwner(ctx context.Context, ownerID string) (*domain.OnboardingRecord, error)
	// List returns records oldest first.
	List(ctx context.Context) ([]domain.OnboardingRecord, error)
	// First returns the oldest record or domain.ErrNotFound.
	First(ctx context.Context) (*domain.OnboardingRecord, error)
}
