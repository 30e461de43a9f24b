// Command cron-worker runs the scheduled maintenance jobs: purging seen
// notifications past retention and clearing abandoned carts. A redis lock
// keeps concurrent replicas from doubling the work.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/cart"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/cron"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/notifications"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/config"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/metrics"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/migrate"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/redis"
)

const lockKeyFormat = "mve:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})
	boot := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(boot, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	exitOn(logg, "failed to load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(boot, cfg.DB, logg)
	exitOn(logg, "failed to bootstrap database", err)
	defer closeQuietly(logg, "database", dbClient.Close)

	exitOn(logg, "failed to run dev migrations", migrate.MaybeRunDev(boot, cfg, logg, dbClient))

	redisClient, err := redis.New(boot, cfg.Redis, logg)
	exitOn(logg, "failed to bootstrap redis", err)
	defer closeQuietly(logg, "redis", redisClient.Close)

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	exitOn(logg, "failed to create cron lock", err)

	service, err := buildService(logg, dbClient, lock)
	exitOn(logg, "failed to build cron service", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildService(logg *logger.Logger, dbClient *db.Client, lock cron.Lock) (*cron.Service, error) {
	notificationCleanup, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: notifications.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return nil, fmt.Errorf("notification cleanup job: %w", err)
	}

	cartCleanup, err := cron.NewCartCleanupJob(cron.CartCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: cart.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return nil, fmt.Errorf("cart cleanup job: %w", err)
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(notificationCleanup, cartCleanup),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
	})
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

func exitOn(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}

func closeQuietly(logg *logger.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logg.Error(context.Background(), "error closing "+name, err)
	}
}
