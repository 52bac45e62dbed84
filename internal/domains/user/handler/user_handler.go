package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"serialfic-backend/internal/domains/user"
	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/internal/shared/middleware"
	"serialfic-backend/internal/shared/response"
	"serialfic-backend/internal/shared/utils"
)

// UserHandler serves /user. It is stateless apart from its dependencies.
type UserHandler struct {
	service  user.Service
	sessions user.SessionStarter
}

func NewUserHandler(service user.Service, sessions user.SessionStarter) *UserHandler {
	return &UserHandler{service: service, sessions: sessions}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Signup handles POST /user/signup. The new user is logged in right away and
// receives its one-time password reset codes. The account already exists once
// the service returns, so a failed login still answers 201 with the codes.
func (h *UserHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.sessions.Login(c.Request.Context(), res.User.UID); err != nil {
		log.Warn().Err(err).Str("uid", res.User.UID.String()).Msg("[Signup] session not established")
	}
	response.Created(c, res)
}

// Login handles POST /user/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	uid, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.sessions.Login(c.Request.Context(), uid); err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user.UserRef{UID: uid}})
}

// Logout handles POST /user/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}
	response.OK(c)
}

// Delete handles POST /user/delete.
func (h *UserHandler) Delete(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	if err := h.service.Delete(c.Request.Context(), uid); err != nil {
		_ = c.Error(err)
		return
	}
	h.endSession(c)
	response.OK(c)
}

// ChangePassword handles POST /user/password. Every session of the user,
// including this one, ends on success.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	var req user.ChangePasswordRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), uid, req); err != nil {
		_ = c.Error(err)
		return
	}
	h.endSession(c)
	response.OK(c)
}

// endSession expires the caller's cookie once its server-side session is gone.
func (h *UserHandler) endSession(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		_ = c.Error(apperror.Internal(err))
	}
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// UpdateProfile handles PUT /user/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, _ := middleware.UserID(c)

	var req user.ProfileImageRequest
	if err := utils.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	url, err := h.service.UpdateProfileImage(c.Request.Context(), uid, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var res user.ProfileImageResponse
	res.User.Image = url
	response.Success(c, http.StatusOK, res)
}

// GetUser handles GET /user/:username.
func (h *UserHandler) GetUser(c *gin.Context) {
	profile, err := h.service.GetProfileByUsername(c.Request.Context(), strings.TrimSpace(c.Param("username")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": profile})
}

// ListUsers handles GET /user.
func (h *UserHandler) ListUsers(c *gin.Context) {
	var p listing.Params
	if err := utils.BindQuery(c, &p); err != nil {
		_ = c.Error(err)
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}
