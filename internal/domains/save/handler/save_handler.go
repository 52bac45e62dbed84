package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"serialfic-backend/internal/domains/save"
	"serialfic-backend/internal/shared/middleware"
	"serialfic-backend/internal/shared/response"
	"serialfic-backend/internal/shared/utils"
)

// SaveHandler serves /user/save. Every route requires a session.
type SaveHandler struct {
	service save.Service
}

func NewSaveHandler(service save.Service) *SaveHandler {
	return &SaveHandler{service: service}
}

func target(c *gin.Context, notFound error) (uuid.UUID, uuid.UUID, bool) {
	uid, _ := middleware.UserID(c)
	bid, err := utils.UUIDParam(c, "bid", notFound)
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, uuid.Nil, false
	}
	return uid, bid, true
}

// List handles GET /user/save.
func (h *SaveHandler) List(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	books, err := h.service.List(c.Request.Context(), uid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books": books})
}

// Save handles POST /user/save/:bid.
func (h *SaveHandler) Save(c *gin.Context) {
	uid, bid, ok := target(c, save.ErrBookNotFound)
	if !ok {
		return
	}

	var req save.SaveBookRequest
	if err := utils.BindOptionalJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Save(c.Request.Context(), uid, bid, req); err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, nil)
}

// Get handles GET /user/save/:bid.
func (h *SaveHandler) Get(c *gin.Context) {
	uid, bid, ok := target(c, save.ErrNotSaved)
	if !ok {
		return
	}

	sv, err := h.service.Get(c.Request.Context(), uid, bid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"save": sv})
}

// Update handles PUT /user/save/:bid.
func (h *SaveHandler) Update(c *gin.Context) {
	uid, bid, ok := target(c, save.ErrInvalidUpdate)
	if !ok {
		return
	}

	var req save.UpdateSaveRequest
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

// Delete handles DELETE /user/save/:bid.
func (h *SaveHandler) Delete(c *gin.Context) {
	uid, bid, ok := target(c, save.ErrNotSaved)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uid, bid); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}
