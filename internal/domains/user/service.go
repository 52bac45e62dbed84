package user

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/shared/listing"
)

// Service is the business logic contract of the user domain.
type Service interface {
	// Authentication
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, req LoginRequest) (uuid.UUID, error)
	ChangePassword(ctx context.Context, uid uuid.UUID, req ChangePasswordRequest) error
	Delete(ctx context.Context, uid uuid.UUID) error

	// Profiles
	UpdateProfileImage(ctx context.Context, uid uuid.UUID, req ProfileImageRequest) (string, error)
	GetProfile(ctx context.Context, uid uuid.UUID) (*PublicProfile, error)
	GetProfileByUsername(ctx context.Context, username string) (*PublicProfile, error)
	ListUsers(ctx context.Context, p listing.Params) ([]PublicProfile, error)
}

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, uid uuid.UUID) error
}

// SessionStarter binds and unbinds the current request's session.
type SessionStarter interface {
	Login(ctx context.Context, uid uuid.UUID) error
	Logout(ctx context.Context) error
}
