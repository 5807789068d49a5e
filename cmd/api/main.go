package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kisanbazar/kisanbazar-backend/api"
	"github.com/kisanbazar/kisanbazar-backend/api/routes"
	internalauth "github.com/kisanbazar/kisanbazar-backend/internal/auth"
	"github.com/kisanbazar/kisanbazar-backend/internal/cart"
	"github.com/kisanbazar/kisanbazar-backend/internal/categories"
	"github.com/kisanbazar/kisanbazar-backend/internal/farmers"
	"github.com/kisanbazar/kisanbazar-backend/internal/messages"
	"github.com/kisanbazar/kisanbazar-backend/internal/orders"
	"github.com/kisanbazar/kisanbazar-backend/internal/products"
	"github.com/kisanbazar/kisanbazar-backend/internal/users"
	"github.com/kisanbazar/kisanbazar-backend/pkg/auth/session"
	"github.com/kisanbazar/kisanbazar-backend/pkg/config"
	"github.com/kisanbazar/kisanbazar-backend/pkg/db"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
	"github.com/kisanbazar/kisanbazar-backend/pkg/metrics"
	"github.com/kisanbazar/kisanbazar-backend/pkg/migrate"
	"github.com/kisanbazar/kisanbazar-backend/pkg/redis"
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, dbClient, redisClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, registry, svcs)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := api.NewServer(addr, handler, dbClient.Close, redisClient.Close)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}

func buildServices(cfg *config.Config, dbClient *db.Client, redisClient *redis.Client, sessions *session.Manager) (routes.Services, error) {
	gdb := dbClient.DB()

	userRepo := users.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)

	authService, err := internalauth.NewService(internalauth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	registerService, err := internalauth.NewRegisterService(internalauth.RegisterServiceParams{
		DB:             dbClient,
		SessionManager: sessions,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Services{}, err
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		return routes.Services{}, err
	}

	farmerService, err := farmers.NewService(farmers.NewRepository(gdb), userRepo)
	if err != nil {
		return routes.Services{}, err
	}

	categoryService, err := categories.NewService(categories.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}

	productService, err := products.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:              orders.NewRepository(gdb),
		Catalog:           orders.NewProductCatalog(productRepo),
		Tx:                dbClient,
		DecrementStock:    cfg.FeatureFlags.StockDecrement,
		StrictTransitions: cfg.FeatureFlags.StrictOrderTransitions,
	})
	if err != nil {
		return routes.Services{}, err
	}

	messageService, err := messages.NewService(messages.NewRepository(gdb), userRepo)
	if err != nil {
		return routes.Services{}, err
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		return routes.Services{}, err
	}
	cartService, err := cart.NewService(cartStore, productRepo, userRepo)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:       authService,
		Register:   registerService,
		Users:      userService,
		Farmers:    farmerService,
		Categories: categoryService,
		Products:   productService,
		Orders:     orderService,
		Messages:   messageService,
		Cart:       cartService,
	}, nil
}
