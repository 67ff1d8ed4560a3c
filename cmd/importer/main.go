package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"carbonpay/internal/config"
	"carbonpay/internal/db"
	"carbonpay/internal/importer"
	"carbonpay/internal/logging"
	catalogrepo "carbonpay/internal/repository/catalog"
	"go.uber.org/zap"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to emissions CSV (id,source,amount,date,offset,projectName)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("importer")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: cfg.DBMaxConns, SlowQuery: cfg.DBSlowQuery, Logger: logger, Attempts: 5})
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, catalogrepo.NewPostgres(pool))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	logger.Info("emissions imported", zap.Int("count", count), zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
}
