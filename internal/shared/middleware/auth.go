package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/response"
)

const userIDKey = "userID"

var ErrNotAuthenticated = apperror.Auth("User is not authenticated")

// SessionReader resolves the logged-in user from the request context.
type SessionReader interface {
	UserID(ctx context.Context) (uuid.UUID, bool)
}

// RequireAuth rejects requests without an authenticated session.
func RequireAuth(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Resolve user from the session loaded by LoadAndSave
		uid, ok := sessions.UserID(c.Request.Context())
		if !ok {
			response.FromError(c, ErrNotAuthenticated)
			c.Abort()
			return
		}

		// 2. Expose it to handlers
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// OptionalAuth records the user when a session exists and never rejects.
func OptionalAuth(sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, ok := sessions.UserID(c.Request.Context()); ok {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
}

// UserID returns the authenticated user set by RequireAuth or OptionalAuth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	uid, ok := v.(uuid.UUID)
	return uid, ok
}

// Requester is UserID as an optional value, nil for anonymous requests.
func Requester(c *gin.Context) *uuid.UUID {
	uid, ok := UserID(c)
	if !ok {
		return nil
	}
	return &uid
}

// SetUserID is used by tests and by handlers that log a user in.
func SetUserID(c *gin.Context, uid uuid.UUID) {
	c.Set(userIDKey, uid)
}
