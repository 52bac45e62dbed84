package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/config"
	"serialfic-backend/pkg/container"
	"serialfic-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet; zerolog's default still writes JSON.
		log.Fatal().Err(err).Msg("[Config] failed to load")
	}
	logger.Init(cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	host, err := container.NewImageHost(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("[Worker] failed to build image host")
	}

	handlers := initializeHandlers(host)
	srv := setupAsynqServer(cfg, handlers)

	if err := startServices(cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] health check failed")
	}

	waitForShutdown(srv)
}

func waitForShutdown(srv *asynqServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] gracefully stopping")
	srv.Shutdown()
	log.Info().Msg("[Shutdown] stopped")
}
