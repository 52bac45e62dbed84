package imagehost

import (
	"context"

	"serialfic-backend/internal/shared/apperror"
)

// UploadResult mirrors the image host response:
// {success, data:{url}} or {success:false, error:{message}}.
type UploadResult struct {
	Success bool         `json:"success"`
	Data    *UploadData  `json:"data,omitempty"`
	Error   *UploadError `json:"error,omitempty"`
}

type UploadData struct {
	URL string `json:"url"`
}

type UploadError struct {
	Message string `json:"message"`
}

func Failed(message string) *UploadResult {
	return &UploadResult{Error: &UploadError{Message: message}}
}

func Succeeded(url string) *UploadResult {
	return &UploadResult{Success: true, Data: &UploadData{URL: url}}
}

// Host uploads user images (book covers, profile pictures).
type Host interface {
	// Upload stores image under name. A rejected image is reported through the
	// result; err is reserved for transport failures.
	Upload(ctx context.Context, name, image string) (*UploadResult, error)
	// Delete removes an image previously returned by Upload. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// Store uploads image and returns its URL. A rejected upload becomes an
// InputError carrying the host's message.
func Store(ctx context.Context, h Host, name, image string) (string, error) {
	res, err := h.Upload(ctx, name, image)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if !res.Success || res.Data == nil || res.Data.URL == "" {
		msg := "Image upload failed"
		if res.Error != nil && res.Error.Message != "" {
			msg = res.Error.Message
		}
		return "", apperror.Input(msg)
	}
	return res.Data.URL, nil
}
