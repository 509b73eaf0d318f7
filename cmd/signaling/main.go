package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hivemeet/signaling/config"
	"github.com/hivemeet/signaling/internal/handlers"
	"github.com/hivemeet/signaling/internal/hub"
	"github.com/hivemeet/signaling/internal/middleware"
	"github.com/hivemeet/signaling/internal/presence"
	"github.com/hivemeet/signaling/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Presence mirror is optional; an empty redis addr runs without it.
	var tracker hub.PresenceTracker
	if cfg.Redis.Addr != "" {
		rp, err := presence.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rp.Close()
		tracker = rp
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis presence mirror enabled")
	}

	h := hub.New(
		store.NewMemoryRooms(),
		store.NewMemorySessions(),
		store.NewMemoryRecordings(),
		tracker,
	)
	defer h.Close()

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/signal", middleware.JWTAuth(cfg.JWTSecret), handlers.HandleSignaling(h, cfg))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("signaling server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}
