package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"serialfic-backend/internal/domains/book"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/internal/shared/middleware"
)

type mockService struct{ mock.Mock }

func (m *mockService) Create(ctx context.Context, uid uuid.UUID, req book.CreateBookRequest) (*book.CreateBookResponse, error) {
	args := m.Called(ctx, uid, req)
	res, _ := args.Get(0).(*book.CreateBookResponse)
	return res, args.Error(1)
}

func (m *mockService) Get(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) (*book.WrappedBook, error) {
	args := m.Called(ctx, requester, bid)
	res, _ := args.Get(0).(*book.WrappedBook)
	return res, args.Error(1)
}

func (m *mockService) List(ctx context.Context, p listing.Params) ([]book.WrappedBook, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).([]book.WrappedBook)
	return out, args.Error(1)
}

func (m *mockService) ListByUser(ctx context.Context, requester *uuid.UUID, username string, p listing.Params) ([]book.WrappedBook, error) {
	args := m.Called(ctx, requester, username, p)
	out, _ := args.Get(0).([]book.WrappedBook)
	return out, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, uid, bid uuid.UUID, req book.UpdateBookRequest) error {
	return m.Called(ctx, uid, bid, req).Error(0)
}

func (m *mockService) Delete(ctx context.Context, uid, bid uuid.UUID) error {
	return m.Called(ctx, uid, bid).Error(0)
}

func (m *mockService) Publish(ctx context.Context, uid, bid uuid.UUID) error {
	return m.Called(ctx, uid, bid).Error(0)
}

func (m *mockService) Unpublish(ctx context.Context, uid, bid uuid.UUID) error {
	return m.Called(ctx, uid, bid).Error(0)
}

func (m *mockService) Tag(ctx context.Context, uid, bid uuid.UUID, tagName string) error {
	return m.Called(ctx, uid, bid, tagName).Error(0)
}

func (m *mockService) Untag(ctx context.Context, uid, bid uuid.UUID, tagName string) error {
	return m.Called(ctx, uid, bid, tagName).Error(0)
}

func setupRouter(h *BookHandler, uid *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())

	optional := func(c *gin.Context) {
		if uid != nil {
			middleware.SetUserID(c, *uid)
		}
	}
	authed := func(c *gin.Context) {
		if uid == nil {
			_ = c.Error(middleware.ErrNotAuthenticated)
			c.Abort()
			return
		}
		middleware.SetUserID(c, *uid)
	}

	r.GET("/book", h.List)
	r.POST("/book", authed, h.Create)
	r.GET("/book/:bid", optional, h.Get)
	r.PUT("/book/:bid", authed, h.Update)
	r.DELETE("/book/:bid", authed, h.Delete)
	r.POST("/book/:bid/publish", authed, h.Publish)
	r.DELETE("/book/:bid/publish", authed, h.Unpublish)
	r.POST("/book/:bid/tag", authed, h.AddTag)
	r.DELETE("/book/:bid/tag", authed, h.RemoveTag)
	r.GET("/user/:username/book", optional, h.ListByUser)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Error.Message
}

func TestList_QueryBinding(t *testing.T) {
	svc := &mockService{}
	r := setupRouter(NewBookHandler(svc), nil)

	svc.On("List", mock.Anything, mock.MatchedBy(func(p listing.Params) bool {
		return p.Limit != nil && *p.Limit == 0 &&
			p.Sort == "-likes" &&
			assert.ObjectsAreEqual([]string{"fantasy", "romance"}, p.Tags)
	})).Return([]book.WrappedBook{}, nil)

	w := do(r, http.MethodGet, "/book?limit=0&sort=-likes&tag=fantasy&tag=romance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"books":[]}}`, w.Body.String())
}

func TestList_NegativeLimitRejected(t *testing.T) {
	svc := &mockService{}
	r := setupRouter(NewBookHandler(svc), nil)

	w := do(r, http.MethodGet, "/book?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGet(t *testing.T) {
	bid := uuid.New()

	t.Run("malformed id is not found", func(t *testing.T) {
		r := setupRouter(NewBookHandler(&mockService{}), nil)
		w := do(r, http.MethodGet, "/book/nope", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Book not found", errorMessage(t, w))
	})

	t.Run("anonymous requester", func(t *testing.T) {
		svc := &mockService{}
		r := setupRouter(NewBookHandler(svc), nil)
		svc.On("Get", mock.Anything, (*uuid.UUID)(nil), bid).Return(nil, book.ErrBookNotFound)

		w := do(r, http.MethodGet, "/book/"+bid.String(), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Book not found", errorMessage(t, w))
	})

	t.Run("owner requester", func(t *testing.T) {
		svc := &mockService{}
		uid := uuid.New()
		r := setupRouter(NewBookHandler(svc), &uid)
		svc.On("Get", mock.Anything, &uid, bid).Return(&book.WrappedBook{Book: &book.Book{BID: bid}}, nil)

		w := do(r, http.MethodGet, "/book/"+bid.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCreate(t *testing.T) {
	uid := uuid.New()

	t.Run("requires a session", func(t *testing.T) {
		r := setupRouter(NewBookHandler(&mockService{}), nil)
		w := do(r, http.MethodPost, "/book", `{"title":"T"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("requires a title", func(t *testing.T) {
		r := setupRouter(NewBookHandler(&mockService{}), &uid)
		w := do(r, http.MethodPost, "/book", `{"title":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title must be provided", errorMessage(t, w))
	})

	t.Run("created", func(t *testing.T) {
		svc := &mockService{}
		r := setupRouter(NewBookHandler(svc), &uid)
		res := &book.CreateBookResponse{}
		res.Book.BID = uuid.New()
		res.Book.Image = "https://img.example/c.jpg"
		svc.On("Create", mock.Anything, uid, book.CreateBookRequest{Title: "T", Blurb: "B", Cover: "data"}).Return(res, nil)

		w := do(r, http.MethodPost, "/book", `{"title":" T ","blurb":"B","cover":"data"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), res.Book.Image)
	})
}

func TestUpdate_EmptyTitleRejected(t *testing.T) {
	uid := uuid.New()
	svc := &mockService{}
	r := setupRouter(NewBookHandler(svc), &uid)

	w := do(r, http.MethodPut, "/book/"+uuid.NewString(), `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title cannot be empty", errorMessage(t, w))
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_AlreadyPublished(t *testing.T) {
	uid := uuid.New()
	bid := uuid.New()
	svc := &mockService{}
	r := setupRouter(NewBookHandler(svc), &uid)
	svc.On("Publish", mock.Anything, uid, bid).Return(book.ErrAlreadyPublished)
	svc.On("Unpublish", mock.Anything, uid, bid).Return(nil)

	w := do(r, http.MethodPost, "/book/"+bid.String()+"/publish", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Book is already published", errorMessage(t, w))

	w = do(r, http.MethodDelete, "/book/"+bid.String()+"/publish", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTagEndpoints(t *testing.T) {
	uid := uuid.New()
	bid := uuid.New()
	svc := &mockService{}
	r := setupRouter(NewBookHandler(svc), &uid)
	svc.On("Tag", mock.Anything, uid, bid, "fantasy").Return(nil)
	svc.On("Untag", mock.Anything, uid, bid, "fantasy").Return(book.ErrTagNotOnBook)

	w := do(r, http.MethodPost, "/book/"+bid.String()+"/tag", `{"tag":" fantasy "}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/book/"+bid.String()+"/tag", `{"tag":"fantasy"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Book does not have this tag", errorMessage(t, w))

	w = do(r, http.MethodPost, "/book/"+bid.String()+"/tag", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Tag must be provided", errorMessage(t, w))
}

func TestListByUser_PassesRequester(t *testing.T) {
	uid := uuid.New()
	svc := &mockService{}
	r := setupRouter(NewBookHandler(svc), &uid)
	svc.On("ListByUser", mock.Anything, &uid, "writer", mock.Anything).Return([]book.WrappedBook{}, nil)

	w := do(r, http.MethodGet, "/user/writer/book", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
