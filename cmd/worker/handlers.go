package main

import (
	"github.com/hibiken/asynq"

	"serialfic-backend/internal/infrastructure/imagehost"
	"serialfic-backend/internal/infrastructure/queue"
	"serialfic-backend/internal/infrastructure/queue/handlers"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteImage *handlers.DeleteImageHandler
}

func initializeHandlers(host imagehost.Host) *HandlerRegistry {
	return &HandlerRegistry{
		deleteImage: handlers.NewDeleteImageHandler(host),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeDeleteImage, h.deleteImage.ProcessTask)
}
