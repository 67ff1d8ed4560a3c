package migrate

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"

	"carbonpay/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.Equal(t, ups, downs)
}

func TestRunner_UpIsIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn, db.Options{})
	require.NoError(t, err)
	defer pool.Close()

	r, err := Open(ctx, pool, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Up())
	require.NoError(t, r.Up())
	v, dirty, ok, err := r.Version()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), v)
}
