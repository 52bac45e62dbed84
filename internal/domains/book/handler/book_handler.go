package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"serialfic-backend/internal/domains/book"
	"serialfic-backend/internal/domains/tag"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/internal/shared/middleware"
	"serialfic-backend/internal/shared/response"
	"serialfic-backend/internal/shared/utils"
)

type BookHandler struct {
	service book.Service
}

func NewBookHandler(service book.Service) *BookHandler {
	return &BookHandler{service: service}
}

// bookID reads :bid, recording the error on the context when it is malformed.
func bookID(c *gin.Context) (uuid.UUID, bool) {
	bid, err := utils.UUIDParam(c, "bid", book.ErrBookNotFound)
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, false
	}
	return bid, true
}

// ========================================
// READ ENDPOINTS
// ========================================

// List handles GET /book.
func (h *BookHandler) List(c *gin.Context) {
	var p listing.Params
	if err := utils.BindQuery(c, &p); err != nil {
		_ = c.Error(err)
		return
	}

	books, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books": books})
}

// ListByUser handles GET /user/:username/book.
func (h *BookHandler) ListByUser(c *gin.Context) {
	var p listing.Params
	if err := utils.BindQuery(c, &p); err != nil {
		_ = c.Error(err)
		return
	}

	username := strings.TrimSpace(c.Param("username"))
	books, err := h.service.ListByUser(c.Request.Context(), middleware.Requester(c), username, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books": books})
}

// Get handles GET /book/:bid. Owners also see their drafts.
func (h *BookHandler) Get(c *gin.Context) {
	bid, ok := bookID(c)
	if !ok {
		return
	}

	wrapped, err := h.service.Get(c.Request.Context(), middleware.Requester(c), bid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, wrapped)
}

// ========================================
// OWNER ENDPOINTS
// ========================================

// Create handles POST /book.
func (h *BookHandler) Create(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	var req book.CreateBookRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), uid, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, res)
}

// Update handles PUT /book/:bid.
func (h *BookHandler) Update(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	bid, ok := bookID(c)
	if !ok {
		return
	}

	var req book.UpdateBookRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Update(c.Request.Context(), uid, bid, req); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}

// Delete handles DELETE /book/:bid.
func (h *BookHandler) Delete(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	bid, ok := bookID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uid, bid); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}

// Publish handles POST /book/:bid/publish.
func (h *BookHandler) Publish(c *gin.Context) {
	h.ownerAction(c, h.service.Publish)
}

// Unpublish handles DELETE /book/:bid/publish.
func (h *BookHandler) Unpublish(c *gin.Context) {
	h.ownerAction(c, h.service.Unpublish)
}

// AddTag handles POST /book/:bid/tag.
func (h *BookHandler) AddTag(c *gin.Context) {
	h.tagAction(c, h.service.Tag)
}

// RemoveTag handles DELETE /book/:bid/tag.
func (h *BookHandler) RemoveTag(c *gin.Context) {
	h.tagAction(c, h.service.Untag)
}

func (h *BookHandler) ownerAction(c *gin.Context, action func(ctx context.Context, uid, bid uuid.UUID) error) {
	uid, _ := middleware.UserID(c)
	bid, ok := bookID(c)
	if !ok {
		return
	}

	if err := action(c.Request.Context(), uid, bid); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}

func (h *BookHandler) tagAction(c *gin.Context, action func(ctx context.Context, uid, bid uuid.UUID, tagName string) error) {
	uid, _ := middleware.UserID(c)
	bid, ok := bookID(c)
	if !ok {
		return
	}

	var req tag.TagRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := action(c.Request.Context(), uid, bid, req.Tag); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}
