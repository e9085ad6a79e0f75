package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/golftrip-backend/config"
	"github.com/sharath018/golftrip-backend/database"
	"github.com/sharath018/golftrip-backend/internal/auditlog"
	"github.com/sharath018/golftrip-backend/internal/clubhouse"
	"github.com/sharath018/golftrip-backend/internal/event"
	"github.com/sharath018/golftrip-backend/internal/invitation"
	"github.com/sharath018/golftrip-backend/internal/notification"
	"github.com/sharath018/golftrip-backend/routes"
	"github.com/sharath018/golftrip-backend/utils"
)

// @title Golf Trip API
// @version 1.0
// @description Trip planning, clubhouse and invitations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := utils.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	log.Info().Msg("running database migrations")
	if err := db.AutoMigrate(
		&auditlog.AuditLog{},
		&event.Event{},
		&event.Player{},
		&clubhouse.Session{},
		&clubhouse.Message{},
		&invitation.Dispatch{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate failed")
	}

	rdb, err := utils.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("redis init failed")
	}
	if rdb == nil {
		log.Info().Msg("REDIS_ADDR not set; using in-memory rate limits, no flag cache, local clubhouse fan-out")
	} else {
		defer rdb.Close()
	}

	mailer, closeMailer, err := notification.NewMailer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("email provider init failed")
	}
	defer closeMailer()

	worker, err := notification.NewWorker(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("email worker init failed")
	}
	workerDone := make(chan struct{})
	if worker != nil {
		go func() {
			defer close(workerDone)
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("email worker stopped")
			}
		}()
	} else {
		close(workerDone)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	if err := routes.Setup(router, cfg, routes.Deps{DB: db, Redis: rdb, Mailer: mailer, Log: log}); err != nil {
		log.Fatal().Err(err).Msg("route setup failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if worker != nil {
		select {
		case <-workerDone:
		case <-shutdownCtx.Done():
			log.Warn().Msg("email worker did not stop in time")
		}
		if err := worker.Close(); err != nil {
			log.Warn().Err(err).Msg("email worker close")
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
