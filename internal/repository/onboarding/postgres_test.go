package onboarding

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"carbonpay/internal/db"
	"carbonpay/internal/domain"
	"carbonpay/internal/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn, db.Options{})
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, migrate.Apply(ctx, pool))

	owner := "0xtest-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM onboarding_records WHERE owner_id = $1`, owner)
	})

	repo := NewPostgres(pool)
	yes := true
	rec := record(owner, "Ana", time.Now().UTC().Truncate(time.Microsecond))
	rec.HasEmissionsHistory = &yes
	require.NoError(t, repo.Create(ctx, rec))

	err = repo.Create(ctx, rec)
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists))

	got, err := repo.GetByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "Ana", got.Name)
	require.NotNil(t, got.HasEmissionsHistory)
	assert.True(t, *got.HasEmissionsHistory)
	assert.Equal(t, []string{"Supply chain"}, got.PrimaryEmissionSources)
}
