package session

import (
	"context"
	"time"

	"carbonpay/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions expired at now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
