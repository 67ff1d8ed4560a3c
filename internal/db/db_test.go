package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnect_BadDSN(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", Options{})
	assert.Error(t, err)
}

func TestQueryTracer(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tr := &queryTracer{logger: zap.New(core), slow: time.Nanosecond}

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	time.Sleep(time.Millisecond)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 1")})

	ctx = tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT nope"})
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	tr.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "slow query", entries[0].Message)
		assert.Equal(t, "query failed", entries[1].Message)
	}
}
