package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"serialfic-backend/internal/domains/chapter"
	"serialfic-backend/internal/shared/middleware"
	"serialfic-backend/internal/shared/response"
	"serialfic-backend/internal/shared/utils"
)

// ChapterHandler serves /book/:bid/chapter.
type ChapterHandler struct {
	service chapter.Service
}

func NewChapterHandler(service chapter.Service) *ChapterHandler {
	return &ChapterHandler{service: service}
}

// chapterRef is the (bid, number) pair addressed by a route.
type chapterRef struct {
	bid    uuid.UUID
	number int
}

func parseBook(c *gin.Context) (uuid.UUID, bool) {
	bid, err := utils.UUIDParam(c, "bid", chapter.ErrBookNotFound)
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, false
	}
	return bid, true
}

func parseChapter(c *gin.Context) (chapterRef, bool) {
	bid, ok := parseBook(c)
	if !ok {
		return chapterRef{}, false
	}
	number, err := utils.PositiveIntParam(c, "number", chapter.ErrChapterNotFound)
	if err != nil {
		_ = c.Error(err)
		return chapterRef{}, false
	}
	return chapterRef{bid: bid, number: number}, true
}

// ========================================
// READ ENDPOINTS
// ========================================

// List handles GET /book/:bid/chapter.
func (h *ChapterHandler) List(c *gin.Context) {
	bid, ok := parseBook(c)
	if !ok {
		return
	}

	chapters, err := h.service.List(c.Request.Context(), middleware.Requester(c), bid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chapters": chapters})
}

// Get handles GET /book/:bid/chapter/:number.
func (h *ChapterHandler) Get(c *gin.Context) {
	ref, ok := parseChapter(c)
	if !ok {
		return
	}

	ch, err := h.service.Get(c.Request.Context(), middleware.Requester(c), ref.bid, ref.number)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chapter": ch})
}

// LastRead handles GET /book/:bid/chapter/last.
func (h *ChapterHandler) LastRead(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	bid, ok := parseBook(c)
	if !ok {
		return
	}

	lr, err := h.service.LastRead(c.Request.Context(), uid, bid)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"chapter": lr})
}

// ========================================
// OWNER ENDPOINTS
// ========================================

// Create handles POST /book/:bid/chapter.
func (h *ChapterHandler) Create(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	bid, ok := parseBook(c)
	if !ok {
		return
	}

	var req chapter.CreateChapterRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	number, err := h.service.Create(c.Request.Context(), uid, bid, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var res chapter.CreateChapterResponse
	res.Chapter.Number = number
	response.Created(c, res)
}

// Update handles PUT /book/:bid/chapter/:number.
func (h *ChapterHandler) Update(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	ref, ok := parseChapter(c)
	if !ok {
		return
	}

	var req chapter.UpdateChapterRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Update(c.Request.Context(), uid, ref.bid, ref.number, req); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}

// Delete handles DELETE /book/:bid/chapter/:number.
func (h *ChapterHandler) Delete(c *gin.Context) {
	h.ownerAction(c, h.service.Delete)
}

// Publish handles POST /book/:bid/chapter/:number/publish.
func (h *ChapterHandler) Publish(c *gin.Context) {
	h.ownerAction(c, h.service.Publish)
}

// Unpublish handles DELETE /book/:bid/chapter/:number/publish.
func (h *ChapterHandler) Unpublish(c *gin.Context) {
	h.ownerAction(c, h.service.Unpublish)
}

func (h *ChapterHandler) ownerAction(c *gin.Context, action func(ctx context.Context, uid, bid uuid.UUID, number int) error) {
	uid, _ := middleware.UserID(c)
	ref, ok := parseChapter(c)
	if !ok {
		return
	}

	if err := action(c.Request.Context(), uid, ref.bid, ref.number); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}

// ========================================
// LIKES
// ========================================

// Like handles POST /book/:bid/chapter/:number/like.
func (h *ChapterHandler) Like(c *gin.Context) {
	h.likeAction(c, h.service.Like)
}

// Unlike handles DELETE /book/:bid/chapter/:number/like.
func (h *ChapterHandler) Unlike(c *gin.Context) {
	h.likeAction(c, h.service.Unlike)
}

func (h *ChapterHandler) likeAction(c *gin.Context, action func(ctx context.Context, uid, bid uuid.UUID, number int) (int, error)) {
	uid, _ := middleware.UserID(c)
	ref, ok := parseChapter(c)
	if !ok {
		return
	}

	likes, err := action(c.Request.Context(), uid, ref.bid, ref.number)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var res chapter.LikesResponse
	res.Chapter.Likes = likes
	response.Success(c, http.StatusOK, res)
}
