package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-insights/internal/api/http"
	"github.com/spec-kit/ticket-insights/internal/api/http/handlers"
	"github.com/spec-kit/ticket-insights/internal/auth"
	"github.com/spec-kit/ticket-insights/internal/cache"
	"github.com/spec-kit/ticket-insights/internal/classifier"
	"github.com/spec-kit/ticket-insights/internal/config"
	"github.com/spec-kit/ticket-insights/internal/events"
	"github.com/spec-kit/ticket-insights/internal/messaging"
	"github.com/spec-kit/ticket-insights/internal/observability"
	"github.com/spec-kit/ticket-insights/internal/persistence"
	"github.com/spec-kit/ticket-insights/internal/repository"
	"github.com/spec-kit/ticket-insights/internal/service"
	"github.com/spec-kit/ticket-insights/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.Pool

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	remote := classifier.NewRemote(cfg.LLM)
	if !remote.Enabled() {
		logger.Warn("OPENAI_API_KEY not provided; tickets will be classified by the local fallback")
	}

	store := repository.NewStore(pool)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TxManager:  repository.NewTxManager(pool),
		TicketRepo: store.Tickets(),
		Resolver:   classifier.NewResolver(remote),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,

		ClassifyTimeout: cfg.LLM.Timeout(),
	})
	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:    store.Clients(),
		ContractRepo:  store.Contracts(),
		DashboardRepo: store.Dashboard(),
	})
	dashboardCache := cache.NewDashboardCache(redis.Client, cfg.Redis.DashboardCacheTTL(), logger)
	dashboardService := service.NewDashboardService(store.Dashboard(), dashboardCache, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService, err := service.NewAuthService(cfg.Auth, tokens)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	if cfg.Auth.Disabled {
		logger.Warn("AUTH_DISABLED=true; protected routes are open")
	} else if !authService.Configured() {
		logger.Warn("no operator password configured; login will always fail")
	}
	authMiddleware := auth.NewAuthMiddleware(tokens, cfg.Auth.Disabled)

	var publisher *messaging.Publisher
	if cfg.Kafka.Enabled() {
		publisher = messaging.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TicketTopic, logger)
		defer publisher.Close() //nolint:errcheck
		logger.Info("publishing analysed tickets to kafka", zap.String("topic", cfg.Kafka.TicketTopic))
	}

	worker.StartNotificationWorker(dispatcher, worker.Subscribers{
		Notifications:  service.NewNotificationService(dispatcher, logger, cfg.Notification),
		DashboardCache: dashboardCache,
		Publisher:      publisher,
	})

	var redisCheck handlers.Pinger
	if redis.Client != nil {
		redisCheck = redis
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisCheck, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Clients:        handlers.NewClientsHandler(clientService),
		Contracts:      handlers.NewContractsHandler(clientService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
