package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repairright/config"
	"repairright/cron"
	"repairright/database"
	bookingRepo "repairright/database/repository/booking"
	catalogRepo "repairright/database/repository/catalog"
	eventsRepo "repairright/database/repository/events"
	"repairright/handlers"
	"repairright/routes"
	"repairright/services/auth"
	bookingService "repairright/services/booking"
	catalogService "repairright/services/catalog"
	"repairright/services/tasks"
	"repairright/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func newVerifier(ctx context.Context, cfg config.Config, logger *zap.Logger) auth.TokenVerifier {
	switch cfg.AuthMode {
	case "local":
		v, err := auth.NewLocalVerifier(cfg.LocalAuthSecret)
		if err != nil {
			logger.Fatal("main: local auth", zap.Error(err))
		}
		logger.Warn("main: AUTH_MODE=local, tokens are verified with a shared secret")
		return v
	case "firebase", "":
		client, err := utils.FirebaseAuth(ctx)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase auth", zap.Error(err))
		}
		return auth.NewFirebaseVerifier(client)
	default:
		logger.Fatal("main: unknown AUTH_MODE", zap.String("authMode", cfg.AuthMode))
		return nil
	}
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	database.InitDB()
	utils.InitCache()
	db := database.DB()

	verifier := newVerifier(rootCtx, cfg, logger)

	// repositories.
	services := catalogRepo.NewMongoCatalogRepo(db)
	bookings, err := bookingRepo.NewMongoBookingRepo(db)
	if err != nil {
		logger.Fatal("main: booking store unavailable", zap.Error(err))
	}
	events := eventsRepo.NewMongoEventRepo(db)

	// booking events.
	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	defer queueClient.Close()
	publisher := &tasks.AsynqPublisher{Client: queueClient}

	worker := cron.NewBookingEventWorker(cron.QueueRedisOpt(), events, logger.Named("worker"))
	worker.Start()

	// services.
	cache := catalogService.NewRedisCache(utils.GetCacheClient(), cfg.CatalogCacheTTL)
	catalogSvc := catalogService.NewCatalogService(services, cache, logger.Named("catalog"))
	bookingSvc := bookingService.NewBookingService(bookings, services, publisher, logger.Named("booking"))
	bookingSvc.History = events

	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient, 30*time.Second)

	handlerBundle := handlers.NewHandlerBundle(verifier, catalogSvc, bookingSvc)
	router := routes.NewRouter(handlerBundle, cfg)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	if err := database.Disconnect(ctx); err != nil {
		logger.Error("main: mongo disconnect", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
