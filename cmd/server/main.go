package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ridehail/internal/app"
	"ridehail/internal/auth"
	"ridehail/internal/config"
	"ridehail/internal/handler"
	"ridehail/internal/logger"
	internalRedis "ridehail/internal/redis"
	"ridehail/internal/repository/postgres"
	"ridehail/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	gin.SetMode(cfg.Server.GinMode)

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg, log)

	// Start server in goroutine.
	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log *logrus.Logger) *http.Server {
	clock := service.SystemClock{}

	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	repos := postgres.Repositories(db)
	txManager := postgres.NewTxManager(db)

	// Initialize services.
	profileService := service.NewProfileService(repos.Profiles, locationStore, clock, log)
	rideService := service.NewRideService(repos, txManager, locationStore, cacheStore, clock, log)
	favoriteService := service.NewFavoriteService(repos.FavoriteLocations, clock)
	earningsService := service.NewEarningsService(repos.Profiles, repos.Earnings, cacheStore, clock, log)
	walletService := service.NewWalletService(repos, txManager, clock, log)
	settlementService := service.NewSettlementService(
		repos, txManager, lockStore, service.NewSimulatedProvider(), cfg.Payment.LockTTL, clock, log,
	)

	sessions := auth.NewUsersServiceClient(cfg.Auth.UsersServiceURL, cfg.Auth.APIKey, cfg.Auth.RequestTimeout)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler: handler.NewAuthHandler(sessions, handler.CookieSettings{
			Name:   cfg.Auth.CookieName,
			MaxAge: cfg.Auth.CookieMaxAge,
			Secure: cfg.Auth.CookieSecure,
		}),
		ProfileHandler:  handler.NewProfileHandler(profileService),
		RideHandler:     handler.NewRideHandler(rideService),
		FavoriteHandler: handler.NewFavoriteHandler(favoriteService),
		EarningsHandler: handler.NewEarningsHandler(earningsService),
		WalletHandler:   handler.NewWalletHandler(walletService),
		PaymentHandler:  handler.NewPaymentHandler(settlementService),
		Sessions:        sessions,
		CookieName:      cfg.Auth.CookieName,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Idempotency:     internalRedis.NewIdempotencyStore(redisClient),
		NewRelicApp:     nrApp,
		Logger:          log,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
