package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wakelni/wakelni-backend/api/controllers"
	"github.com/wakelni/wakelni-backend/api/middleware"
	"github.com/wakelni/wakelni-backend/internal/auth"
	"github.com/wakelni/wakelni-backend/internal/cart"
	"github.com/wakelni/wakelni-backend/internal/complaints"
	"github.com/wakelni/wakelni-backend/internal/dishes"
	"github.com/wakelni/wakelni-backend/internal/notifications"
	"github.com/wakelni/wakelni-backend/internal/orders"
	"github.com/wakelni/wakelni-backend/internal/payments"
	"github.com/wakelni/wakelni-backend/internal/reviews"
	"github.com/wakelni/wakelni-backend/pkg/auth/session"
	"github.com/wakelni/wakelni-backend/pkg/config"
	"github.com/wakelni/wakelni-backend/pkg/db"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	"github.com/wakelni/wakelni-backend/pkg/logger"
	"github.com/wakelni/wakelni-backend/pkg/metrics"
	"github.com/wakelni/wakelni-backend/pkg/redis"
)

// Deps carries everything the router needs to mount the API surface.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer

	Auth          auth.Service
	Dishes        dishes.Service
	Cart          cart.Service
	Orders        orders.Service
	Payments      payments.Service
	Reviews       reviews.Service
	Complaints    complaints.Service
	Notifications notifications.Service
}

// NewRouter mounts health endpoints, the metrics endpoint, and the versioned
// API under /api/v1.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, d.SessionChecker, logg)
	clientOnly := middleware.RequireRole(string(enums.UserRoleClient), logg)
	cookOnly := middleware.RequireRole(string(enums.UserRoleCook), logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/clerk-sync", controllers.AuthClerkSync(d.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
				r.Get("/me", controllers.AuthMe(d.Auth, logg))
				r.Patch("/me", controllers.AuthUpdateProfile(d.Auth, logg))
			})
		})

		r.Route("/dishes", func(r chi.Router) {
			r.Get("/", controllers.DishList(d.Dishes, logg))
			r.Get("/{dishId}", controllers.DishGet(d.Dishes, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, cookOnly)
				r.Get("/mine", controllers.DishMine(d.Dishes, logg))
				r.Post("/", controllers.DishCreate(d.Dishes, logg))
				r.Patch("/{dishId}", controllers.DishUpdate(d.Dishes, logg))
				r.Delete("/{dishId}", controllers.DishDelete(d.Dishes, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth, clientOnly)
			r.Get("/", controllers.CartGet(d.Cart, logg))
			r.Post("/items", controllers.CartAddItem(d.Cart, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateItem(d.Cart, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.OrderList(d.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
			r.With(cookOnly).Post("/{orderId}/status", controllers.OrderChangeStatus(d.Orders, logg))
			r.With(clientOnly).Post("/{orderId}/cancel", controllers.OrderCancel(d.Orders, logg))
			r.With(clientOnly).Post("/{orderId}/confirm-reception", controllers.OrderConfirmReception(d.Orders, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(requireAuth, clientOnly)
			r.Post("/checkout-session", controllers.PaymentCheckoutSession(d.Payments, logg))
			r.Post("/confirm", controllers.PaymentConfirm(d.Payments, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/dish/{dishId}", controllers.ReviewsByDish(d.Reviews, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.With(clientOnly).Post("/", controllers.ReviewSubmit(d.Reviews, logg))
				r.With(clientOnly).Get("/mine", controllers.ReviewMine(d.Reviews, logg))
				r.With(cookOnly).Get("/received", controllers.ReviewsReceived(d.Reviews, logg))
			})
		})

		r.Route("/complaints", func(r chi.Router) {
			r.Use(requireAuth)
			r.With(clientOnly).Post("/", controllers.ComplaintCreate(d.Complaints, logg))
			r.With(clientOnly).Get("/mine", controllers.ComplaintMine(d.Complaints, logg))
			r.With(cookOnly).Get("/received", controllers.ComplaintsReceived(d.Complaints, logg))
			r.With(cookOnly).Post("/{complaintId}/status", controllers.ComplaintChangeStatus(d.Complaints, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.NotificationList(d.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(d.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(d.Notifications, logg))
		})
	})

	return r
}
