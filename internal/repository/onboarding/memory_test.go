package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"carbonpay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(owner, name string, at time.Time) domain.OnboardingRecord {
	return domain.OnboardingRecord{
		ID:        "onboarding-" + at.Format(time.RFC3339Nano),
		OwnerID:   owner,
		CreatedAt: at,
		OnboardingForm: domain.OnboardingForm{
			Name:                   name,
			PrimaryEmissionSources: []string{"Supply chain"},
		},
	}
}

func TestMemory_CreateAndRead(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.First(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, repo.Create(ctx, record("a", "Ana", base)))
	require.NoError(t, repo.Create(ctx, record("b", "Bo", base.Add(time.Minute))))

	first, err := repo.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", first.Name)

	got, err := repo.GetByOwner(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Bo", got.Name)

	_, err = repo.GetByOwner(ctx, "c")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].OwnerID)
	assert.Equal(t, "b", list[1].OwnerID)
}

func TestMemory_OneRecordPerOwner(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, record("a", "Ana", now)))
	err := repo.Create(ctx, record("a", "Ana again", now))
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))

	list, _ := repo.List(ctx)
	assert.Len(t, list, 1)
}

func TestMemory_Isolation(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()

	rec := record("a", "Ana", time.Now())
	require.NoError(t, repo.Create(ctx, rec))
	rec.PrimaryEmissionSources[0] = "mutated"

	got, _ := repo.GetByOwner(ctx, "a")
	assert.Equal(t, "Supply chain", got.PrimaryEmissionSources[0])
	got.PrimaryEmissionSources[0] = "mutated"

	again, _ := repo.GetByOwner(ctx, "a")
	assert.Equal(t, "Supply chain", again.PrimaryEmissionSources[0])
}
