package onboarding

import (
	"context"
	"errors"

	"carbonpay/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, rec domain.OnboardingRecord) error {
	const q = `
INSERT INTO onboarding_records (id, owner_id, form, created_at)
VALUES ($1, $2, $3, $4)
`
	_, err := r.pool.Exec(ctx, q, rec.ID, rec.OwnerID, rec.OnboardingForm, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.OnboardingRecord, error) {
	const q = `
SELECT id, owner_id, form, created_at
FROM onboarding_records
WHERE owner_id = $1
`
	return r.one(ctx, q, ownerID)
}

func (r *postgresRepo) First(ctx context.Context) (*domain.OnboardingRecord, error) {
	const q = `
SELECT id, owner_id, form, created_at
FROM onboarding_records
ORDER BY created_at, id
LIMIT 1
`
	return r.one(ctx, q)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.OnboardingRecord, error) {
	const q = `
SELECT id, owner_id, form, created_at
FROM onboarding_records
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OnboardingRecord
	for rows.Next() {
		var rec domain.OnboardingRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.OnboardingForm, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *postgresRepo) one(ctx context.Context, q string, args ...any) (*domain.OnboardingRecord, error) {
	var rec domain.OnboardingRecord
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&rec.ID, &rec.OwnerID, &rec.OnboardingForm, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
