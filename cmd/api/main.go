package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/eduardalidini-ux/multivendor-ecommerce/api/routes"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/cart"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/coupons"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/notifications"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/payments"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/products"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/reviews"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/settings"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/shipments"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/storage"
	stripewebhook "github.com/eduardalidini-ux/multivendor-ecommerce/internal/webhooks/stripe"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/config"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/email"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/metrics"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/migrate"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/redis"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/storage/gcs"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		// Presigned storage is optional infrastructure; the storefront
		// still functions without it.
		logg.Warn(context.Background(), "object storage unavailable, presign endpoints disabled")
		gcsClient = nil
	}

	var emailer email.Sender
	if cfg.Features.SendEmails {
		emailClient, err := email.NewClient(context.Background(), cfg.Sendgrid, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap email", err)
			os.Exit(1)
		}
		emailer = emailClient
	}

	gormDB := dbClient.DB()
	productsRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	couponsRepo := coupons.NewRepository(gormDB)
	reviewsRepo := reviews.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)
	shipmentsRepo := shipments.NewRepository(gormDB)

	settingsSvc, err := settings.NewService(settingsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	productsSvc, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	cartSvc, err := cart.NewService(cartRepo, productsRepo, settingsSvc, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(ordersRepo, cartRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	couponsSvc, err := coupons.NewService(couponsRepo, ordersRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}
	reviewsSvc, err := reviews.NewService(reviewsRepo, productsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}
	notificationsSvc, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	paymentsSvc, err := payments.NewService(
		ordersRepo,
		productsRepo,
		notificationsSvc,
		emailer,
		payments.NewStripeClient(stripeClient),
		dbClient,
		logg,
		cfg.Checkout,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}
	shipmentsSvc, err := shipments.NewService(shipmentsRepo, ordersRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipments service", err)
		os.Exit(1)
	}

	var storageSvc storage.Service
	if gcsClient != nil {
		storageSvc, err = storage.NewService(gcsClient, cfg.GCS, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create storage service", err)
			os.Exit(1)
		}
	}

	webhookSvc, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		OrdersRepo: ordersRepo,
		Finalizer:  paymentsSvc,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}
	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Redis.WebhookIdempotencyTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	deps := routes.Deps{
		DB:                 dbClient,
		Redis:              redisClient,
		Metrics:            metrics.NewHTTPMetrics(),
		StripeClient:       stripeClient,
		StripeWebhookSvc:   webhookSvc,
		StripeWebhookGuard: webhookGuard,
	}
	if gcsClient != nil {
		deps.GCS = gcsClient
	}

	handler := routes.NewRouter(cfg, logg, routes.Services{
		Products:      productsSvc,
		Reviews:       reviewsSvc,
		Cart:          cartSvc,
		Orders:        ordersSvc,
		Coupons:       couponsSvc,
		Payments:      paymentsSvc,
		Shipments:     shipmentsSvc,
		Notifications: notificationsSvc,
		Storage:       storageSvc,
	}, deps)

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
