package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/wakelni/wakelni-backend/api/routes"
	"github.com/wakelni/wakelni-backend/internal/auth"
	"github.com/wakelni/wakelni-backend/internal/cart"
	"github.com/wakelni/wakelni-backend/internal/complaints"
	"github.com/wakelni/wakelni-backend/internal/dishes"
	"github.com/wakelni/wakelni-backend/internal/notifications"
	"github.com/wakelni/wakelni-backend/internal/orders"
	"github.com/wakelni/wakelni-backend/internal/payments"
	"github.com/wakelni/wakelni-backend/internal/reviews"
	"github.com/wakelni/wakelni-backend/internal/users"
	"github.com/wakelni/wakelni-backend/pkg/auth/session"
	"github.com/wakelni/wakelni-backend/pkg/config"
	"github.com/wakelni/wakelni-backend/pkg/db"
	"github.com/wakelni/wakelni-backend/pkg/logger"
	"github.com/wakelni/wakelni-backend/pkg/metrics"
	"github.com/wakelni/wakelni-backend/pkg/migrate"
	"github.com/wakelni/wakelni-backend/pkg/redis"
	"github.com/wakelni/wakelni-backend/pkg/stripe"
)

const shutdownGrace = 15 * time.Second

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()

	dishRepo := dishes.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)
	paymentRepo := payments.NewRepository(gdb)
	reviewRepo := reviews.NewRepository(gdb)
	complaintRepo := complaints.NewRepository(gdb)
	notificationRepo := notifications.NewRepository(gdb)

	services, err := buildServices(serviceDeps{
		cfg:              cfg,
		db:               dbClient,
		sessionManager:   sessionManager,
		stripeClient:     stripeClient,
		userRepo:         users.NewRepository(gdb),
		dishRepo:         dishRepo,
		cartRepo:         cartRepo,
		orderRepo:        orderRepo,
		paymentRepo:      paymentRepo,
		reviewRepo:       reviewRepo,
		complaintRepo:    complaintRepo,
		notificationRepo: notificationRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		HTTPMetrics:    httpMetrics,
		Gatherer:       registry,

		Auth:          services.auth,
		Dishes:        services.dishes,
		Cart:          services.cart,
		Orders:        services.orders,
		Payments:      services.payments,
		Reviews:       services.reviews,
		Complaints:    services.complaints,
		Notifications: services.notifications,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		if drained, ok := <-errCh; ok && drained != nil {
			shutdownErr = multierr.Append(shutdownErr, drained)
		}
		if shutdownErr != nil {
			logg.Error(ctx, "api server shutdown error", shutdownErr)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}

type serviceDeps struct {
	cfg            *config.Config
	db             *db.Client
	sessionManager *session.Manager
	stripeClient   *stripe.Client

	userRepo         *users.Repository
	dishRepo         dishes.Repository
	cartRepo         cart.Repository
	orderRepo        orders.Repository
	paymentRepo      payments.Repository
	reviewRepo       reviews.Repository
	complaintRepo    complaints.Repository
	notificationRepo notifications.Repository
}

type serviceSet struct {
	auth          auth.Service
	dishes        dishes.Service
	cart          cart.Service
	orders        orders.Service
	payments      payments.Service
	reviews       reviews.Service
	complaints    complaints.Service
	notifications notifications.Service
}

func buildServices(deps serviceDeps) (*serviceSet, error) {
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       deps.userRepo,
		SessionManager: deps.sessionManager,
		JWTConfig:      deps.cfg.JWT,
		PasswordConfig: deps.cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	dishService, err := dishes.NewService(deps.dishRepo)
	if err != nil {
		return nil, err
	}

	cartService, err := cart.NewService(deps.cartRepo, deps.dishRepo, deps.db)
	if err != nil {
		return nil, err
	}

	notificationService, err := notifications.NewService(deps.notificationRepo)
	if err != nil {
		return nil, err
	}

	orderService, err := orders.NewService(deps.orderRepo, deps.db, notificationService)
	if err != nil {
		return nil, err
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:          deps.paymentRepo,
		OrderRepo:     deps.orderRepo,
		CartRepo:      deps.cartRepo,
		DishRepo:      deps.dishRepo,
		Gateway:       deps.stripeClient,
		Tx:            deps.db,
		Notifications: notificationService,
		Checkout:      deps.cfg.Checkout,
	})
	if err != nil {
		return nil, err
	}

	reviewService, err := reviews.NewService(deps.reviewRepo)
	if err != nil {
		return nil, err
	}

	complaintService, err := complaints.NewService(deps.complaintRepo, deps.orderRepo, deps.db, notificationService)
	if err != nil {
		return nil, err
	}

	return &serviceSet{
		auth:          authService,
		dishes:        dishService,
		cart:          cartService,
		orders:        orderService,
		payments:      paymentService,
		reviews:       reviewService,
		complaints:    complaintService,
		notifications: notificationService,
	}, nil
}
