package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eduardalidini-ux/multivendor-ecommerce/api/controllers"
	webhookcontrollers "github.com/eduardalidini-ux/multivendor-ecommerce/api/controllers/webhooks"
	"github.com/eduardalidini-ux/multivendor-ecommerce/api/middleware"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/cart"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/coupons"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/notifications"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/orders"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/payments"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/products"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/reviews"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/shipments"
	"github.com/eduardalidini-ux/multivendor-ecommerce/internal/storage"
	stripewebhook "github.com/eduardalidini-ux/multivendor-ecommerce/internal/webhooks/stripe"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/config"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/db"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/metrics"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/redis"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/storage/gcs"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/stripe"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Products      products.Service
	Reviews       reviews.Service
	Cart          cart.Service
	Orders        orders.Service
	Coupons       coupons.Service
	Payments      payments.Service
	Shipments     shipments.Service
	Notifications notifications.Service
	Storage       storage.Service
}

// Deps bundles the infrastructure the router needs beyond the services.
type Deps struct {
	DB                 db.Pinger
	Redis              redis.Pinger
	GCS                gcs.Pinger
	Metrics            *metrics.HTTPMetrics
	StripeClient       *stripe.Client
	StripeWebhookSvc   *stripewebhook.Service
	StripeWebhookGuard *stripewebhook.IdempotencyGuard
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.GCS))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhookSvc, deps.StripeClient, deps.StripeWebhookGuard, logg))
		})

		// Storefront. Carts and checkout work for guests; a bearer token,
		// when present, attaches the caller to the rows it creates.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(svcs.Products, logg))
				r.Get("/featured", controllers.FeaturedProducts(svcs.Products, logg))
				r.Get("/{slug}", controllers.ProductBySlug(svcs.Products, logg))
			})
			r.Get("/categories", controllers.ListCategories(svcs.Products, logg))
			r.Get("/brands", controllers.ListBrands(svcs.Products, logg))
			r.Get("/reviews/{productID}", controllers.ListProductReviews(svcs.Reviews, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Post("/items", controllers.UpsertCartItem(svcs.Cart, logg))
				r.Get("/{cartID}", controllers.ListCart(svcs.Cart, logg))
				r.Get("/{cartID}/totals", controllers.CartTotals(svcs.Cart, logg))
				r.Delete("/{cartID}/items/{itemID}", controllers.DeleteCartItem(svcs.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
				r.Get("/{oid}", controllers.GetOrder(svcs.Orders, logg))
				r.Post("/{oid}/checkout-session", controllers.CreateCheckoutSession(svcs.Payments, logg))
				r.Get("/{oid}/payment-success", controllers.PaymentSuccess(svcs.Payments, logg))
			})

			r.Post("/coupons/apply", controllers.ApplyCoupon(svcs.Coupons, logg))
		})

		// Everything below requires a verified identity.
		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/orders", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/orders/{oid}/track", controllers.TrackOrder(svcs.Shipments, logg))
			r.Post("/reviews/{productID}", controllers.CreateProductReview(svcs.Reviews, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
				r.Post("/{notificationID}/seen", controllers.MarkNotificationSeen(svcs.Notifications, logg))
				r.Post("/seen-all", controllers.MarkAllNotificationsSeen(svcs.Notifications, logg))
			})

			r.Route("/storage", func(r chi.Router) {
				r.Post("/presign-upload", controllers.PresignUpload(svcs.Storage, logg))
				r.Get("/presign-download", controllers.PresignDownload(svcs.Storage, logg))
			})
		})

		r.Route("/warehouse", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireWarehouseManager(logg))

			r.Get("/couriers", controllers.ListCouriers(svcs.Shipments, logg))
			r.Get("/orders/unassigned", controllers.UnassignedOrders(svcs.Shipments, logg))
			r.Get("/shipments/{status}", controllers.ShipmentsByStatus(svcs.Shipments, logg))
			r.Post("/orders/{oid}/assign", controllers.AssignCourier(svcs.Shipments, logg))
		})

		r.Route("/courier", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireCourier(logg))

			r.Get("/shipments", controllers.MyShipments(svcs.Shipments, logg))
			r.Post("/orders/{oid}/status", controllers.UpdateShipmentStatus(svcs.Shipments, logg))
		})
	})

	return r
}
