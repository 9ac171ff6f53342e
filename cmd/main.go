package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"videomatch/backend/internal/api/handler"
	"videomatch/backend/internal/chathub"
	"videomatch/backend/internal/config"
	"videomatch/backend/internal/identity"
	"videomatch/backend/internal/logger"
	"videomatch/backend/internal/models"
	"videomatch/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect PostgreSQL", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect Redis", "addr", cfg.Redis.Addr, "err", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	logger.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", "err", err)
	}
	cfg := config.New()
	logger.InitFromConfig(cfg)
	logger.Info("starting videomatch backend", "addr", cfg.HTTP.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, rdb := setupDependencies(ctx, cfg)
	defer rdb.Close()
	s := storage.NewStorageService(db, rdb)

	hub := chathub.NewManagerService(chathub.WithGraceInterval(cfg.Hub.GraceInterval))
	go hub.Run(ctx)
	hub.StartStatsPublisher(ctx, s, cfg.Hub.StatsInterval)

	ids := identity.NewService(cfg.JWTSecret, s)
	h := handler.NewHandler(hub, ids, s, cfg.HTTP.AllowedOrigins)
	h.SendBuffer = cfg.Hub.SendBuffer

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:           cfg.HTTP.Addr,
		Handler:        handler.NewRouter(h, cfg.HTTP.AllowedOrigins),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "err", err)
	}
}
