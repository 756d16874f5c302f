package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/go-redis/redis/v8"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"itemseek-backend/config"
	"itemseek-backend/internal/api"
	"itemseek-backend/internal/auth"
	"itemseek-backend/internal/db"
	"itemseek-backend/internal/logging"
	"itemseek-backend/internal/notification"
	"itemseek-backend/internal/store"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger := logging.New(cfg.Log.Level)
	logger.Infof("configuration loaded from %s", configPath)

	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB, logger)

	revocations, closeRevocations := newRevocations(ctx, cfg.Auth.Revocation, logger)
	defer closeRevocations()

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	var (
		webpushOptions *webpush.Options
		alerts         *notification.WorkerPool
	)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		alerts = notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, logger)
		alerts.Start(ctx)
	} else {
		logger.Warn("VAPID keys not configured; push notifications are disabled")
	}

	router := api.NewRouter(api.NewHandler(api.Deps{
		Store:       appStore,
		Config:      cfg,
		Issuer:      issuer,
		Revocations: revocations,
		Alerts:      alerts,
		Webpush:     webpushOptions,
		Log:         logger,
	}))

	var handler http.Handler = router
	if len(cfg.Server.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler(router)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Info("Server gracefully stopped")
}

// newRevocations keeps revoked tokens in Redis when an address is configured
// and in process memory otherwise.
func newRevocations(ctx context.Context, cfg config.RevocationConfig, logger *logrus.Logger) (auth.RevocationStore, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("token revocations kept in memory")
		return auth.NewMemoryRevocations(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("failed to reach redis at %s: %v", cfg.RedisAddr, err)
	}
	logger.Infof("token revocations kept in redis at %s", cfg.RedisAddr)
	return auth.NewRedisRevocations(rdb), func() { rdb.Close() }
}
