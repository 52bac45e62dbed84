package imagehost

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Imgbb uploads to the imgbb API. Images expire on their own, so Delete is a no-op.
type Imgbb struct {
	endpoint   string
	key        string
	expiration int
	client     *http.Client
}

func NewImgbb(endpoint, key string, expiration int) *Imgbb {
	return &Imgbb{
		endpoint:   endpoint,
		key:        key,
		expiration: expiration,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *Imgbb) Upload(ctx context.Context, name, image string) (*UploadResult, error) {
	form := url.Values{
		"name":  {name},
		"key":   {h.key},
		"image": {image},
	}
	if h.expiration > 0 {
		form.Set("expiration", strconv.Itoa(h.expiration))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build imgbb request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imgbb upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read imgbb response: %w", err)
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode imgbb response (status %d): %w", resp.StatusCode, err)
	}
	if !result.Success && result.Error == nil {
		result.Error = &UploadError{Message: http.StatusText(resp.StatusCode)}
	}
	return &result, nil
}

func (h *Imgbb) Delete(context.Context, string) error { return nil }
