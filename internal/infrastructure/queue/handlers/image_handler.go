package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/infrastructure/queue"
)

// ImageDeleter is satisfied by imagehost.Host.
type ImageDeleter interface {
	Delete(ctx context.Context, url string) error
}

// DeleteImageHandler removes replaced or orphaned images from the image host.
type DeleteImageHandler struct {
	host ImageDeleter
}

func NewDeleteImageHandler(host ImageDeleter) *DeleteImageHandler {
	return &DeleteImageHandler{host: host}
}

func (h *DeleteImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p queue.DeleteImagePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Error().Err(err).Msg("invalid delete image payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.host.Delete(ctx, p.URL); err != nil {
		log.Error().Err(err).Str("url", p.URL).Msg("failed to delete image")
		return fmt.Errorf("delete image: %w", err)
	}

	log.Info().Str("url", p.URL).Msg("image deleted")
	return nil
}
