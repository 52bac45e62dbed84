package imagehost

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"serialfic-backend/internal/infrastructure/storage"
)

// ObjectStore is the subset of storage.MinIOStorage used here.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// MinIO stores normalised JPEGs in object storage.
type MinIO struct {
	store     ObjectStore
	processor *storage.ImageProcessor
}

func NewMinIO(store ObjectStore, processor *storage.ImageProcessor) *MinIO {
	return &MinIO{store: store, processor: processor}
}

// Upload accepts a base64 payload, optionally as a data URL.
func (h *MinIO) Upload(ctx context.Context, name, image string) (*UploadResult, error) {
	data, err := decodePayload(image)
	if err != nil {
		return Failed("Image must be base64 encoded"), nil
	}

	if err := h.processor.Validate(data); err != nil {
		return Failed(validationMessage(err)), nil
	}
	jpg, err := h.processor.Normalize(data)
	if err != nil {
		return Failed(validationMessage(err)), nil
	}

	// A fresh key per upload so a replaced image never serves stale bytes.
	key := fmt.Sprintf("images/%s/%s.jpg", name, uuid.NewString())
	url, err := h.store.Upload(ctx, key, jpg, "image/jpeg")
	if err != nil {
		return nil, err
	}
	return Succeeded(url), nil
}

func (h *MinIO) Delete(ctx context.Context, url string) error {
	key, ok := h.store.KeyFromURL(url)
	if !ok {
		return nil
	}
	return h.store.Delete(ctx, key)
}

func decodePayload(image string) ([]byte, error) {
	image = strings.TrimSpace(image)
	if strings.HasPrefix(image, "data:") {
		i := strings.Index(image, ",")
		if i < 0 {
			return nil, errors.New("malformed data url")
		}
		image = image[i+1:]
	}
	if image == "" {
		return nil, errors.New("empty payload")
	}
	return base64.StdEncoding.DecodeString(image)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return "Image is too large (max 5MB)"
	case errors.Is(err, storage.ErrImageFormat):
		return "Image must be a JPEG or PNG"
	default:
		return "File is not a valid image"
	}
}
