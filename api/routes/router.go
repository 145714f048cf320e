package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cleanfresh/laundry-backend/api/controllers"
	"github.com/cleanfresh/laundry-backend/api/middleware"
	"github.com/cleanfresh/laundry-backend/internal/catalog"
	"github.com/cleanfresh/laundry-backend/internal/customers"
	"github.com/cleanfresh/laundry-backend/internal/dashboard"
	"github.com/cleanfresh/laundry-backend/internal/orders"
	"github.com/cleanfresh/laundry-backend/internal/payments"
	"github.com/cleanfresh/laundry-backend/internal/queue"
	"github.com/cleanfresh/laundry-backend/internal/reports"
	"github.com/cleanfresh/laundry-backend/pkg/config"
	"github.com/cleanfresh/laundry-backend/pkg/db"
	"github.com/cleanfresh/laundry-backend/pkg/logger"
	pkgredis "github.com/cleanfresh/laundry-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	customersSvc customers.Service,
	ordersSvc orders.Service,
	catalogSvc catalog.Service,
	paymentsSvc payments.Service,
	queueSvc queue.Service,
	dashboardSvc dashboard.Service,
	reportsSvc reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var (
		idemStore   pkgredis.IdempotencyStore
		redisPinger pkgredis.Pinger
	)
	if redisClient != nil {
		idemStore = redisClient
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.StaffContext(logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(customersSvc, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(customersSvc, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOrderManagement(logg))
				r.Post("/", controllers.CustomerCreate(customersSvc, logg))
				r.Patch("/{customerId}", controllers.CustomerUpdate(customersSvc, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersSvc, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersSvc, logg))
			r.Get("/{orderId}/receipt", controllers.ReportReceipt(reportsSvc, logg))
			r.Get("/{orderId}/payments", controllers.PaymentList(paymentsSvc, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOrderManagement(logg))
				r.Post("/", controllers.OrderCreate(ordersSvc, logg))
				r.Patch("/{orderId}", controllers.OrderUpdate(ordersSvc, logg))
				r.Post("/{orderId}/items", controllers.OrderAddItem(ordersSvc, logg))
				r.Patch("/{orderId}/items/{itemId}", controllers.OrderUpdateItem(ordersSvc, logg))
				r.Delete("/{orderId}/items/{itemId}", controllers.OrderRemoveItem(ordersSvc, logg))
				r.Post("/{orderId}/payments", controllers.PaymentRecord(paymentsSvc, logg))
			})
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(catalogSvc, logg))
			r.Get("/{typeId}", controllers.CatalogDetail(catalogSvc, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Post("/", controllers.CatalogCreate(catalogSvc, logg))
				r.Patch("/{typeId}", controllers.CatalogUpdate(catalogSvc, logg))
				r.Delete("/{typeId}", controllers.CatalogDelete(catalogSvc, logg))
			})
		})

		r.Route("/queue", func(r chi.Router) {
			r.Get("/", controllers.QueueList(queueSvc, logg))
			r.Get("/next", controllers.QueueNext(queueSvc, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOrderManagement(logg))
				r.Post("/", controllers.QueueEnqueue(queueSvc, logg))
				r.Post("/{orderId}/advance", controllers.QueueAdvance(queueSvc, logg))
				r.Post("/{orderId}/assign", controllers.QueueAssign(queueSvc, logg))
				r.Delete("/{orderId}", controllers.QueueRemove(queueSvc, logg))
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/me", controllers.DashboardStaff(dashboardSvc, logg))
			r.With(middleware.RequireAdmin(logg)).Get("/admin", controllers.DashboardAdmin(dashboardSvc, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/sales", controllers.ReportSales(reportsSvc, logg))
		})
	})

	return r
}
