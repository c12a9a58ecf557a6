package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civicgrid/grievance-service/internal/api/http"
	"github.com/civicgrid/grievance-service/internal/api/http/handlers"
	"github.com/civicgrid/grievance-service/internal/auth"
	"github.com/civicgrid/grievance-service/internal/config"
	"github.com/civicgrid/grievance-service/internal/events"
	"github.com/civicgrid/grievance-service/internal/observability"
	"github.com/civicgrid/grievance-service/internal/persistence"
	"github.com/civicgrid/grievance-service/internal/repository"
	"github.com/civicgrid/grievance-service/internal/service"
	"github.com/civicgrid/grievance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	grievanceRepo := repository.NewGrievanceRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, accountRepo)
	if err := authService.EnsureAdmin(ctx, cfg.Admin, logger); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	grievanceService := service.NewGrievanceService(service.GrievanceDependencies{
		GrievanceRepo: grievanceRepo,
		Cache:         redis,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Grievances:     handlers.NewGrievancesHandler(grievanceService),
		Stats:          handlers.NewStatsHandler(grievanceService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
