package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Options tune the pool. Zero values keep pgx defaults; a nil Logger disables
// query tracing.
type Options struct {
	MaxConns  int32
	SlowQuery time.Duration
	Logger    *zap.Logger
	// Attempts is how many times the initial ping is tried before giving up.
	Attempts int
}

// Connect opens a pgx connection pool and verifies connectivity with a ping,
// retrying while the database is still starting.
func Connect(ctx context.Context, dsn string, opts Options) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if cfg.ConnConfig.RuntimeParams["application_name"] == "" {
		cfg.ConnConfig.RuntimeParams["application_name"] = "carbonpay"
	}
	if opts.Logger != nil {
		cfg.ConnConfig.Tracer = &queryTracer{logger: opts.Logger.Named("db"), slow: opts.SlowQuery}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	attempts := max(opts.Attempts, 1)
	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			return pool, nil
		}
		if i >= attempts {
			break
		}
		if opts.Logger != nil {
			opts.Logger.Warn("database not reachable, retrying", zap.Int("attempt", i), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(i) * time.Second):
		}
	}
	pool.Close()
	return nil, fmt.Errorf("ping db: %w", err)
}

type traceStartKey struct{}

type traceStart struct {
	sql   string
	start time.Time
}

// queryTracer logs failed queries and, when slow is set, queries slower than it.
type queryTracer struct {
	logger *zap.Logger
	slow   time.Duration
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceStartKey{}, traceStart{sql: data.SQL, start: time.Now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceStartKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := time.Since(st.start)
	switch {
	case data.Err != nil:
		t.logger.Debug("query failed", zap.String("sql", st.sql), zap.Duration("took", elapsed), zap.Error(data.Err))
	case t.slow > 0 && elapsed >= t.slow:
		t.logger.Warn("slow query", zap.String("sql", st.sql), zap.Duration("took", elapsed), zap.String("tag", data.CommandTag.String()))
	}
}
