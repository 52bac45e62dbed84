package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"serialfic-backend/internal/domains/comment"
	"serialfic-backend/internal/shared/middleware"
	"serialfic-backend/internal/shared/response"
	"serialfic-backend/internal/shared/utils"
)

// CommentHandler serves /book/:bid/chapter/:number/comment.
type CommentHandler struct {
	service comment.Service
}

func NewCommentHandler(service comment.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

func parseChapter(c *gin.Context) (uuid.UUID, int, bool) {
	bid, err := utils.UUIDParam(c, "bid", comment.ErrChapterNotFound)
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, 0, false
	}
	number, err := utils.PositiveIntParam(c, "number", comment.ErrChapterNotFound)
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, 0, false
	}
	return bid, number, true
}

func parseTarget(c *gin.Context) (comment.Target, bool) {
	bid, number, ok := parseChapter(c)
	if !ok {
		return comment.Target{}, false
	}
	cid, err := utils.UUIDParam(c, "cid", comment.ErrCommentNotFound)
	if err != nil {
		_ = c.Error(err)
		return comment.Target{}, false
	}
	return comment.Target{BID: bid, Number: number, CID: cid}, true
}

// List handles GET /book/:bid/chapter/:number/comment.
func (h *CommentHandler) List(c *gin.Context) {
	bid, number, ok := parseChapter(c)
	if !ok {
		return
	}

	comments, err := h.service.List(c.Request.Context(), middleware.Requester(c), bid, number)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comments": comments})
}

// Replies handles GET /book/:bid/chapter/:number/comment/:cid.
func (h *CommentHandler) Replies(c *gin.Context) {
	t, ok := parseTarget(c)
	if !ok {
		return
	}

	replies, err := h.service.Replies(c.Request.Context(), middleware.Requester(c), t)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"comments": replies})
}

// Create handles POST /book/:bid/chapter/:number/comment.
func (h *CommentHandler) Create(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	bid, number, ok := parseChapter(c)
	if !ok {
		return
	}

	var req comment.CreateCommentRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	cid, err := h.service.Create(c.Request.Context(), uid, bid, number, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var res comment.CreateCommentResponse
	res.Comment.CID = cid
	response.Created(c, res)
}

// Update handles PUT /book/:bid/chapter/:number/comment/:cid.
func (h *CommentHandler) Update(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	t, ok := parseTarget(c)
	if !ok {
		return
	}

	var req comment.UpdateCommentRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Update(c.Request.Context(), uid, t, req); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}

// Delete handles DELETE /book/:bid/chapter/:number/comment/:cid.
func (h *CommentHandler) Delete(c *gin.Context) {
	uid, _ := middleware.UserID(c)
	t, ok := parseTarget(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uid, t); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c)
}

// Like handles POST /book/:bid/chapter/:number/comment/:cid/like.
func (h *CommentHandler) Like(c *gin.Context) {
	h.likeAction(c, h.service.Like)
}

// Unlike handles DELETE /book/:bid/chapter/:number/comment/:cid/like.
func (h *CommentHandler) Unlike(c *gin.Context) {
	h.likeAction(c, h.service.Unlike)
}

func (h *CommentHandler) likeAction(c *gin.Context, action func(ctx context.Context, uid uuid.UUID, t comment.Target) (int, error)) {
	uid, _ := middleware.UserID(c)
	t, ok := parseTarget(c)
	if !ok {
		return
	}

	likes, err := action(c.Request.Context(), uid, t)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var res comment.LikesResponse
	res.Comment.Likes = likes
	response.Success(c, http.StatusOK, res)
}
