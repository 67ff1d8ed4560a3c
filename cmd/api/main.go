package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"carbonpay/internal/catalog"
	"carbonpay/internal/config"
	"carbonpay/internal/db"
	"carbonpay/internal/events"
	"carbonpay/internal/httpserver"
	"carbonpay/internal/logging"
	"carbonpay/internal/migrate"
	catalogrepo "carbonpay/internal/repository/catalog"
	onboardingrepo "carbonpay/internal/repository/onboarding"
	sessionrepo "carbonpay/internal/repository/session"
	"carbonpay/internal/scheduler"
	onboardingsvc "carbonpay/internal/service/onboarding"
	portfoliosvc "carbonpay/internal/service/portfolio"
	purchasesvc "carbonpay/internal/service/purchase"
	sessionsvc "carbonpay/internal/service/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}

type stores struct {
	catalog    catalogrepo.Repository
	onboarding onboardingrepo.Repository
	sessions   sessionrepo.Repository
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (stores, *pgxpool.Pool, error) {
	if !cfg.UsesPostgres() {
		logger.Info("using in-memory store")
		return stores{
			catalog:    catalogrepo.NewStatic(catalog.Default()),
			onboarding: onboardingrepo.NewMemory(),
			sessions:   sessionrepo.NewMemory(),
		}, nil, nil
	}

	pool, err := db.Connect(ctx, cfg.DBConnString, db.Options{MaxConns: cfg.DBMaxConns, SlowQuery: cfg.DBSlowQuery, Logger: logger, Attempts: 5})
	if err != nil {
		return stores{}, nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		pool.Close()
		return stores{}, nil, fmt.Errorf("apply migrations: %w", err)
	}
	catalogRepo := catalogrepo.NewPostgres(pool)
	if projects, err := catalogRepo.ListProjects(ctx); err == nil && len(projects) == 0 {
		logger.Warn("catalog tables are empty, run cmd/seed to load them")
	}
	logger.Info("using postgres store")
	return stores{
		catalog:    catalogRepo,
		onboarding: onboardingrepo.NewPostgres(pool),
		sessions:   sessionrepo.NewPostgres(pool),
	}, pool, nil
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	st, pool, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	fanout := events.NewFanout(logger.Named("events"))
	onboardingService := onboardingsvc.New(st.onboarding, fanout, logger)
	portfolioService := portfoliosvc.New(st.catalog, onboardingService, portfoliosvc.NewCache(cfg.DashboardCacheTTL), logger)
	fanout.Subscribe(portfolioService)

	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}
		defer nc.Drain()
		fanout.Subscribe(events.NewNATSNotifier(nc, cfg.NATSSubjectPrefix))
		logger.Info("publishing events to nats", zap.String("url", cfg.NATSURL), zap.String("prefix", cfg.NATSSubjectPrefix))
	}

	sessionService := sessionsvc.New(st.sessions, cfg.JWTSecret, cfg.SessionTTL, logger)
	wizards := onboardingsvc.NewWizards(onboardingService, cfg.WizardIdleTTL)
	dialogs := purchasesvc.NewDialogs(st.catalog, cfg.Currency, cfg.WizardIdleTTL, logger)

	sched := scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.Counted("wizards", wizards.Sweep),
		scheduler.Counted("purchase-dialogs", dialogs.Sweep),
		scheduler.Counted("dashboard-cache", portfolioService.SweepCache),
		{Name: "sessions", Run: sessionService.Sweep},
	}
	for _, job := range jobs {
		if err := sched.Add(cfg.SweepSchedule, job); err != nil {
			return err
		}
	}
	sched.Start()
	defer sched.Stop()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		Catalog:    st.catalog,
		Sessions:   sessionService,
		Onboarding: onboardingService,
		Wizards:    wizards,
		Portfolio:  portfolioService,
		Purchases:  dialogs,
	}, httpserver.Options{
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		Currency:    cfg.Currency,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		return nil
	}
	logger.Info("server stopped")
	return nil
}
