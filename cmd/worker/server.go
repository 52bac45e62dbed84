package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/config"
	"serialfic-backend/internal/infrastructure/queue"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// setupAsynqServer creates the server and starts processing. Start does not
// block; signals are handled by waitForShutdown.
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		redisOpt(cfg.Redis),
		asynq.Config{
			Queues: map[string]int{
				queue.QueueDefault: 10,
				queue.QueueLow:     5,
			},
			Concurrency: cfg.Queue.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				log.Error().Err(err).Str("type", task.Type()).Int("retried", retried).Msg("[Asynq] task failed")
			}),
		},
	)

	log.Info().Int("concurrency", cfg.Queue.Concurrency).Msg("[Worker] starting")
	if err := srv.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("[Worker] failed")
	}

	return &asynqServer{Server: srv}
}

// Shutdown stops fetching new tasks and waits for active ones to finish.
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] shutting down")
	s.Server.Shutdown()
}
