package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-backend/api/routes"
	"storefront-backend/internal/auth"
	"storefront-backend/internal/banners"
	"storefront-backend/internal/brands"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/categories"
	"storefront-backend/internal/home"
	"storefront-backend/internal/notifications"
	"storefront-backend/internal/orders"
	"storefront-backend/internal/products"
	"storefront-backend/internal/ratings"
	"storefront-backend/internal/users"
	"storefront-backend/internal/wishlist"
	"storefront-backend/pkg/auth/session"
	"storefront-backend/pkg/config"
	"storefront-backend/pkg/db"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/metrics"
	"storefront-backend/pkg/migrate"
	"storefront-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	categoriesRepo := categories.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	bannersRepo := banners.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		CodeStore:      redisClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	categoriesService, err := categories.NewService(categoriesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}
	productsService, err := products.NewService(products.ServiceParams{
		Repo:       productsRepo,
		Categories: categoriesRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	brandsService, err := brands.NewService(brands.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create brands service", err)
		os.Exit(1)
	}
	bannersService, err := banners.NewService(bannersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create banners service", err)
		os.Exit(1)
	}
	ratingsService, err := ratings.NewService(ratings.ServiceParams{
		Repo:     ratings.NewRepository(gormDB),
		Products: productsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ratings service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		Products: productsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(gormDB),
		Products: productsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}
	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(gormDB),
		Cart:     cartRepo,
		Products: productsRepo,
		Notifier: notificationsService,
		Tx:       dbClient,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	homeService, err := home.NewService(home.ServiceParams{
		Banners: bannersRepo,
		Catalog: productsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create home service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Cfg:            cfg,
			Logger:         logg,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			DBPinger:       dbClient,
			RedisClient:    redisClient,
			Idempotency:    redisClient,
			Sessions:       sessionManager,
			Auth:           authService,
			Users:          usersService,
			Products:       productsService,
			Categories:     categoriesService,
			Brands:         brandsService,
			Banners:        bannersService,
			Ratings:        ratingsService,
			Cart:           cartService,
			Wishlist:       wishlistService,
			Orders:         ordersService,
			Notifications:  notificationsService,
			Home:           homeService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
