package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"carbonpay/internal/config"
	"carbonpay/internal/db"
	"carbonpay/internal/logging"
	"carbonpay/internal/migrate"
	"go.uber.org/zap"
)

func main() {
	var (
		down        int
		downAll     bool
		showVersion bool
	)
	flag.IntVar(&down, "down", 0, "Roll back this many migrations instead of migrating up")
	flag.BoolVar(&downAll, "down-all", false, "Roll back every migration")
	flag.BoolVar(&showVersion, "version", false, "Print the applied schema version and exit")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: cfg.DBMaxConns, SlowQuery: cfg.DBSlowQuery, Logger: logger, Attempts: 5})
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	runner, err := migrate.Open(ctx, pool, logger)
	if err != nil {
		logger.Fatal("open migrations", zap.Error(err))
	}
	defer runner.Close()

	switch {
	case showVersion:
	case downAll:
		err = runner.Down(0)
	case down > 0:
		err = runner.Down(down)
	default:
		err = runner.Up()
	}
	if err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	version, dirty, ok, err := runner.Version()
	if err != nil {
		logger.Fatal("read version", zap.Error(err))
	}
	if !ok {
		logger.Info("schema is empty")
		return
	}
	logger.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
