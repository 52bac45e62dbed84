package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"serialfic-backend/internal/domains/user"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/internal/shared/middleware"
)

type mockService struct{ mock.Mock }

func (m *mockService) Signup(ctx context.Context, req user.SignupRequest) (*user.SignupResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*user.SignupResponse)
	return res, args.Error(1)
}

func (m *mockService) Login(ctx context.Context, req user.LoginRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockService) ChangePassword(ctx context.Context, uid uuid.UUID, req user.ChangePasswordRequest) error {
	return m.Called(ctx, uid, req).Error(0)
}

func (m *mockService) Delete(ctx context.Context, uid uuid.UUID) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *mockService) UpdateProfileImage(ctx context.Context, uid uuid.UUID, req user.ProfileImageRequest) (string, error) {
	args := m.Called(ctx, uid, req)
	return args.String(0), args.Error(1)
}

func (m *mockService) GetProfile(ctx context.Context, uid uuid.UUID) (*user.PublicProfile, error) {
	args := m.Called(ctx, uid)
	p, _ := args.Get(0).(*user.PublicProfile)
	return p, args.Error(1)
}

func (m *mockService) GetProfileByUsername(ctx context.Context, username string) (*user.PublicProfile, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*user.PublicProfile)
	return p, args.Error(1)
}

func (m *mockService) ListUsers(ctx context.Context, p listing.Params) ([]user.PublicProfile, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).([]user.PublicProfile)
	return out, args.Error(1)
}

type fakeSessions struct {
	loggedIn  []uuid.UUID
	loggedOut int
	loginErr  error
}

func (f *fakeSessions) Login(_ context.Context, uid uuid.UUID) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = append(f.loggedIn, uid)
	return nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.loggedOut++
	return nil
}

func setupRouter(h *UserHandler, uid *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())

	authed := func(c *gin.Context) {
		if uid == nil {
			_ = c.Error(middleware.ErrNotAuthenticated)
			c.Abort()
			return
		}
		middleware.SetUserID(c, *uid)
	}

	r.POST("/user/signup", h.Signup)
	r.POST("/user/login", h.Login)
	r.POST("/user/delete", authed, h.Delete)
	r.POST("/user/password", authed, h.ChangePassword)
	r.PUT("/user/profile", authed, h.UpdateProfile)
	r.GET("/user", h.ListUsers)
	r.GET("/user/:username", h.GetUser)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSignup(t *testing.T) {
	svc := &mockService{}
	sessions := &fakeSessions{}
	r := setupRouter(NewUserHandler(svc, sessions), nil)
	uid := uuid.New()

	svc.On("Signup", mock.Anything, user.SignupRequest{Email: "a@b.co", Username: "writer", Password: "Correct-Horse-9"}).
		Return(&user.SignupResponse{User: user.UserRef{UID: uid}, Codes: []string{"abc"}}, nil)

	w := do(r, http.MethodPost, "/user/signup", `{"email":" a@b.co ","username":"writer ","password":"Correct-Horse-9"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	out := body(t, w)
	assert.Equal(t, true, out["success"])
	data := out["data"].(map[string]any)
	assert.Equal(t, uid.String(), data["user"].(map[string]any)["uid"])
	assert.Equal(t, []any{"abc"}, data["codes"])
	assert.Equal(t, []uuid.UUID{uid}, sessions.loggedIn)
}

func TestSignup_SessionStoreDownStillReturnsCodes(t *testing.T) {
	svc := &mockService{}
	sessions := &fakeSessions{loginErr: errors.New("redis: connection refused")}
	r := setupRouter(NewUserHandler(svc, sessions), nil)
	uid := uuid.New()

	svc.On("Signup", mock.Anything, mock.Anything).
		Return(&user.SignupResponse{User: user.UserRef{UID: uid}, Codes: []string{"c1", "c2"}}, nil)

	w := do(r, http.MethodPost, "/user/signup", `{"email":"a@b.co","username":"writer","password":"Correct-Horse-9"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	data := body(t, w)["data"].(map[string]any)
	assert.Equal(t, uid.String(), data["user"].(map[string]any)["uid"])
	assert.Equal(t, []any{"c1", "c2"}, data["codes"])
	assert.Empty(t, sessions.loggedIn)
}

func TestSignup_InvalidPasswordNeverReachesService(t *testing.T) {
	svc := &mockService{}
	r := setupRouter(NewUserHandler(svc, &fakeSessions{}), nil)

	w := do(r, http.MethodPost, "/user/signup", `{"email":"a@b.co","username":"writer","password":"NoDigitsHere-abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errBody := body(t, w)["error"].(map[string]any)
	assert.Equal(t, "InputError", errBody["code"])
	assert.Equal(t, "Password must contain at least 1 number", errBody["message"])
	svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	svc := &mockService{}
	sessions := &fakeSessions{}
	r := setupRouter(NewUserHandler(svc, sessions), nil)
	uid := uuid.New()

	svc.On("Login", mock.Anything, user.LoginRequest{Username: "writer", Password: "bad"}).
		Return(uuid.Nil, user.ErrIncorrectPassword)
	svc.On("Login", mock.Anything, user.LoginRequest{Username: "writer", Password: "good"}).
		Return(uid, nil)

	w := do(r, http.MethodPost, "/user/login", `{"username":"writer","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect password", body(t, w)["error"].(map[string]any)["message"])
	assert.Empty(t, sessions.loggedIn)

	w = do(r, http.MethodPost, "/user/login", `{"username":"writer","password":"good"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{uid}, sessions.loggedIn)
}

func TestDelete(t *testing.T) {
	uid := uuid.New()

	t.Run("requires a session", func(t *testing.T) {
		r := setupRouter(NewUserHandler(&mockService{}, &fakeSessions{}), nil)
		w := do(r, http.MethodPost, "/user/delete", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ends the current session", func(t *testing.T) {
		svc := &mockService{}
		sessions := &fakeSessions{}
		r := setupRouter(NewUserHandler(svc, sessions), &uid)
		svc.On("Delete", mock.Anything, uid).Return(nil)

		w := do(r, http.MethodPost, "/user/delete", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, sessions.loggedOut)
	})
}

func TestChangePassword(t *testing.T) {
	uid := uuid.New()
	svc := &mockService{}
	sessions := &fakeSessions{}
	r := setupRouter(NewUserHandler(svc, sessions), &uid)

	svc.On("ChangePassword", mock.Anything, uid, user.ChangePasswordRequest{Password: "Another-Pass-42", Code: "abc"}).
		Return(user.ErrInvalidResetCode).Once()

	w := do(r, http.MethodPost, "/user/password", `{"password":"Another-Pass-42","code":" abc "}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, sessions.loggedOut)

	w = do(r, http.MethodPost, "/user/password", `{"password":"Another-Pass-42"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password reset code must be provided", body(t, w)["error"].(map[string]any)["message"])
}

func TestUpdateProfile(t *testing.T) {
	uid := uuid.New()
	svc := &mockService{}
	r := setupRouter(NewUserHandler(svc, &fakeSessions{}), &uid)
	svc.On("UpdateProfileImage", mock.Anything, uid, user.ProfileImageRequest{Profile: "base64"}).
		Return("http://img/me.jpg", nil)

	w := do(r, http.MethodPut, "/user/profile", `{"profile":"base64"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := body(t, w)["data"].(map[string]any)
	assert.Equal(t, "http://img/me.jpg", data["user"].(map[string]any)["image"])
}

func TestGetUserAndList(t *testing.T) {
	svc := &mockService{}
	r := setupRouter(NewUserHandler(svc, &fakeSessions{}), nil)

	svc.On("GetProfileByUsername", mock.Anything, "ghost").Return(nil, user.ErrProfileNotFound)
	w := do(r, http.MethodGet, "/user/ghost", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username not found", body(t, w)["error"].(map[string]any)["message"])

	w = do(r, http.MethodGet, "/user?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.On("ListUsers", mock.Anything, mock.MatchedBy(func(p listing.Params) bool {
		return p.Limit != nil && *p.Limit == 0 && p.Search == "an"
	})).Return([]user.PublicProfile{}, nil)
	w = do(r, http.MethodGet, "/user?limit=0&search=an", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body(t, w)["data"].(map[string]any)["users"])
}
