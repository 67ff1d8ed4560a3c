package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"carbonpay/internal/catalog"
	"carbonpay/internal/config"
	"carbonpay/internal/db"
	"carbonpay/internal/logging"
	"carbonpay/internal/seed"
	"go.uber.org/zap"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "", "YAML catalog to load instead of the built-in one")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("seed")

	data, err := loadDataset(file)
	if err != nil {
		logger.Fatal("load catalog", zap.String("file", file), zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: cfg.DBMaxConns, SlowQuery: cfg.DBSlowQuery, Logger: logger, Attempts: 5})
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, data); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied",
		zap.Int("projects", len(data.Projects)),
		zap.Int("credits", len(data.Credits)),
		zap.Int("emissions", len(data.Emissions)),
	)
}

func loadDataset(file string) (catalog.Dataset, error) {
	if file == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(file)
	if err != nil {
		return catalog.Dataset{}, err
	}
	defer f.Close()
	return catalog.Read(f)
}
