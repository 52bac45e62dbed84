package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const (
	TypeDeleteImage = "image:delete"

	QueueDefault = "default"
	QueueLow     = "low"
)

type DeleteImagePayload struct {
	URL string `json:"url"`
}

// ImageCleaner schedules removal of images that are no longer referenced.
type ImageCleaner interface {
	EnqueueImageDeletion(ctx context.Context, url string) error
}

// Client enqueues background tasks through asynq.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, password string, db int) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db})}
}

func NewDeleteImageTask(url string) (*asynq.Task, error) {
	payload, err := json.Marshal(DeleteImagePayload{URL: url})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeleteImage, payload), nil
}

func (c *Client) EnqueueImageDeletion(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	task, err := NewDeleteImageTask(url)
	if err != nil {
		return fmt.Errorf("build delete image task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue delete image: %w", err)
	}

	log.Debug().Str("task_id", info.ID).Str("url", url).Msg("[QUEUE] image deletion enqueued")
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Noop drops deletion requests. Used when the queue is disabled.
type Noop struct{}

func (Noop) EnqueueImageDeletion(_ context.Context, url string) error {
	if url != "" {
		log.Debug().Str("url", url).Msg("[QUEUE] disabled, image left in place")
	}
	return nil
}

// DiscardImages enqueues deletion of every non-empty url. Failures are logged
// and never surface to the caller; the image is merely orphaned.
func DiscardImages(ctx context.Context, cleaner ImageCleaner, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := cleaner.EnqueueImageDeletion(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("[QUEUE] image deletion not scheduled")
		}
	}
}
