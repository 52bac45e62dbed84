package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/config"
	"serialfic-backend/internal/infrastructure/cache"
)

// startServices checks Redis and exposes the liveness endpoint.
func startServices(cfg *config.Config) error {
	client := cache.NewRedisClient(cfg.Redis)
	defer client.Close()

	if err := checkRedis(client); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("[Startup] redis reachable")

	go startHealthCheckServer(cfg.Queue.HealthAddr)
	return nil
}

func checkRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}

func healthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "serialfic-worker"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	return r
}

func startHealthCheckServer(addr string) {
	log.Info().Str("addr", addr).Msg("[Health] starting health check server")
	srv := &http.Server{Addr: addr, Handler: healthRouter(), ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Error().Err(err).Msg("[Health] failed to start")
	}
}
