package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialfic-backend/internal/infrastructure/imagehost"
	"serialfic-backend/internal/infrastructure/queue"
)

type recordingHost struct {
	deleted []string
}

func (h *recordingHost) Upload(context.Context, string, string) (*imagehost.UploadResult, error) {
	return imagehost.Succeeded("http://images.local/x.jpg"), nil
}

func (h *recordingHost) Delete(_ context.Context, url string) error {
	h.deleted = append(h.deleted, url)
	return nil
}

func TestRegisterHandlers_DeleteImage(t *testing.T) {
	host := &recordingHost{}
	mux := asynq.NewServeMux()
	initializeHandlers(host).RegisterHandlers(mux)

	task, err := queue.NewDeleteImageTask("http://images.local/old.jpg")
	require.NoError(t, err)

	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"http://images.local/old.jpg"}, host.deleted)
}

func TestHealthRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := healthRouter()

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
