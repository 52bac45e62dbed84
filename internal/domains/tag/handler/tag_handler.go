package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"serialfic-backend/internal/domains/tag"
	"serialfic-backend/internal/shared/response"
	"serialfic-backend/internal/shared/utils"
)

type TagHandler struct {
	service tag.Service
}

func NewTagHandler(service tag.Service) *TagHandler {
	return &TagHandler{service: service}
}

// Create handles POST /book/tag.
func (h *TagHandler) Create(c *gin.Context) {
	var req tag.TagRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Create(c.Request.Context(), req); err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, nil)
}

// List handles GET /book/tag.
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tags": tags})
}
