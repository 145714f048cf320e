package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cleanfresh/laundry-backend/internal/cron"
	"github.com/cleanfresh/laundry-backend/internal/customers"
	"github.com/cleanfresh/laundry-backend/pkg/config"
	"github.com/cleanfresh/laundry-backend/pkg/db"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
	"github.com/cleanfresh/laundry-backend/pkg/metrics"
	"github.com/cleanfresh/laundry-backend/pkg/migrate"
	"github.com/cleanfresh/laundry-backend/pkg/redis"
)

const lockKeyFormat = "cron-worker:%s"

// customerDirectory pairs the service recompute with the repository's id
// sweep so the reconcile job can iterate every customer.
type customerDirectory struct {
	customers.Service
	repo customers.Repository
}

func (d customerDirectory) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return d.repo.ListIDs(ctx)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)
	customersSvc, err := customers.NewService(customers.NewRepository(dbClient.DB()), dbClient, logg, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	totalsJob, err := cron.NewTotalsReconcileJob(cron.TotalsReconcileJobParams{
		Logger:    logg,
		DB:        dbClient,
		Customers: customerDirectory{customersSvc, customers.NewRepository(dbClient.DB())},
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create totals reconcile job", err)
		os.Exit(1)
	}
	overdueJob, err := cron.NewOverduePaymentsJob(cron.OverduePaymentsJobParams{
		Logger: logg,
		DB:     dbClient.DB(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create overdue payments job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockKey(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(totalsJob, overdueJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
