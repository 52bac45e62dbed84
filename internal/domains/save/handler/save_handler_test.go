package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"serialfic-backend/internal/domains/save"
	"serialfic-backend/internal/shared/middleware"
)

type mockService struct{ mock.Mock }

func (m *mockService) Save(ctx context.Context, uid, bid uuid.UUID, req save.SaveBookRequest) error {
	return m.Called(ctx, uid, bid, req).Error(0)
}

func (m *mockService) Get(ctx context.Context, uid, bid uuid.UUID) (*save.Save, error) {
	args := m.Called(ctx, uid, bid)
	s, _ := args.Get(0).(*save.Save)
	return s, args.Error(1)
}

func (m *mockService) List(ctx context.Context, uid uuid.UUID) ([]save.SavedBook, error) {
	args := m.Called(ctx, uid)
	out, _ := args.Get(0).([]save.SavedBook)
	return out, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, uid, bid uuid.UUID, req save.UpdateSaveRequest) error {
	return m.Called(ctx, uid, bid, req).Error(0)
}

func (m *mockService) Delete(ctx context.Context, uid, bid uuid.UUID) error {
	return m.Called(ctx, uid, bid).Error(0)
}

func setupRouter(h *SaveHandler, uid uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) { middleware.SetUserID(c, uid) })

	r.GET("/user/save", h.List)
	r.POST("/user/save/:bid", h.Save)
	r.GET("/user/save/:bid", h.Get)
	r.PUT("/user/save/:bid", h.Update)
	r.DELETE("/user/save/:bid", h.Delete)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSave_DefaultsToUnread(t *testing.T) {
	uid, bid := uuid.New(), uuid.New()
	svc := &mockService{}
	r := setupRouter(NewSaveHandler(svc), uid)
	svc.On("Save", mock.Anything, uid, bid, save.SaveBookRequest{Status: save.StatusUnread}).Return(nil)
	svc.On("Save", mock.Anything, uid, bid, save.SaveBookRequest{Status: save.StatusReading}).Return(nil)

	w := do(r, http.MethodPost, "/user/save/"+bid.String(), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/user/save/"+bid.String(), `{"status":"reading"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdate_InvalidStatus(t *testing.T) {
	uid, bid := uuid.New(), uuid.New()
	svc := &mockService{}
	r := setupRouter(NewSaveHandler(svc), uid)

	w := do(r, http.MethodPut, "/user/save/"+bid.String(), `{"status":"finished"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "New status is invalid or user did not save such a book")
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGet_NotSaved(t *testing.T) {
	uid, bid := uuid.New(), uuid.New()
	svc := &mockService{}
	r := setupRouter(NewSaveHandler(svc), uid)
	svc.On("Get", mock.Anything, uid, bid).Return(nil, save.ErrNotSaved)

	w := do(r, http.MethodGet, "/user/save/"+bid.String(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User did not save such a book")
}

func TestList(t *testing.T) {
	uid := uuid.New()
	svc := &mockService{}
	r := setupRouter(NewSaveHandler(svc), uid)
	svc.On("List", mock.Anything, uid).Return([]save.SavedBook{}, nil)

	w := do(r, http.MethodGet, "/user/save", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"books":[]}}`, w.Body.String())
}
