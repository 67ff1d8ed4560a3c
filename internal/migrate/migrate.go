package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Runner drives the embedded schema migrations against one database.
type Runner struct {
	m *migrate.Migrate
}

// Open prepares a Runner over a dedicated database/sql handle derived from
// pool's connection string. logger may be nil.
func Open(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (*Runner, error) {
	srcDriver, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("init iofs: %w", err)
	}

	sqlDB, err := sql.Open("pgx", pool.Config().ConnString())
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sql db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: "carbonpay_schema_migrations"})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "pgx", dbDriver)
	if err != nil {
		dbDriver.Close()
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	if logger != nil {
		m.Log = migrateLogger{logger: logger.Named("migrate").Sugar()}
	}
	return &Runner{m: m}, nil
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("migrate up: %w (hint: every version needs both .up.sql and .down.sql)", err)
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back steps migrations, or all of them when steps <= 0.
func (r *Runner) Down(steps int) error {
	var err error
	if steps <= 0 {
		err = r.m.Down()
	} else {
		err = r.m.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version is the applied schema version. ok is false on an empty database.
func (r *Runner) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("migrate version: %w", err)
	}
	return version, dirty, true, nil
}

func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Apply runs all migrations up using the embedded migration files.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	r, err := Open(ctx, pool, nil)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Up()
}

type migrateLogger struct {
	logger *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return false }
