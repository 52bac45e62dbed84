package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialfic-backend/internal/shared/apperror"
)

type staticSession struct {
	uid uuid.UUID
	ok  bool
}

func (s staticSession) UserID(context.Context) (uuid.UUID, bool) { return s.uid, s.ok }

type envelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(), ErrorHandler())
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRequireAuth(t *testing.T) {
	uid := uuid.New()

	t.Run("anonymous is rejected", func(t *testing.T) {
		r := setupRouter()
		r.GET("/p", RequireAuth(staticSession{}), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "AuthError", env.Error.Code)
		assert.Equal(t, "User is not authenticated", env.Error.Message)
	})

	t.Run("session user is exposed", func(t *testing.T) {
		r := setupRouter()
		r.GET("/p", RequireAuth(staticSession{uid: uid, ok: true}), func(c *gin.Context) {
			got, ok := UserID(c)
			require.True(t, ok)
			c.String(http.StatusOK, got.String())
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uid.String(), w.Body.String())
	})
}

func TestOptionalAuth(t *testing.T) {
	r := setupRouter()
	r.GET("/p", OptionalAuth(staticSession{}), func(c *gin.Context) {
		assert.Nil(t, Requester(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"input", apperror.Input("Book not found"), http.StatusBadRequest, "InputError", "Book not found"},
		{"auth", apperror.Auth("Incorrect password"), http.StatusUnauthorized, "AuthError", "Incorrect password"},
		{"db", &apperror.Error{Kind: apperror.KindDB, Status: http.StatusConflict, Message: "dup"}, http.StatusConflict, "DBError", "dup"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "InternalError", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter()
			r.GET("/e", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/e", nil))

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, tt.message, env.Error.Message)
		})
	}
}

func TestRecovery(t *testing.T) {
	r := setupRouter()
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "InternalError", decode(t, w).Error.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, retry := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	ok, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "other clients have their own bucket")

	now = now.Add(2 * time.Second)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "bucket refills over time")

	t.Run("middleware answers 429", func(t *testing.T) {
		limited := NewRateLimiter(0.001, 1)
		r := setupRouter()
		r.POST("/login", limited.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Equal(t, "RateLimitError", decode(t, w).Error.Code)
	})
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("1.2.3.4")
	require.Len(t, rl.visitors, 1)

	// idle but inside the sweep window: kept
	now = now.Add(30 * time.Second)
	rl.idleTTL = 10 * time.Second
	rl.Allow("5.6.7.8")
	assert.Len(t, rl.visitors, 2)

	now = now.Add(time.Minute)
	rl.Allow("5.6.7.8")
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "5.6.7.8")
}

func TestCORS(t *testing.T) {
	r := setupRouter()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
