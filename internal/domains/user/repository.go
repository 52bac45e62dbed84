package user

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/shared/listing"
)

// Repository is the data access contract of the user domain.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	// CreateWithResetCodes inserts the user and its hashed reset codes in one
	// transaction and returns the new uid.
	CreateWithResetCodes(ctx context.Context, u *User, codeHashes []string) (uuid.UUID, error)

	FindByID(ctx context.Context, uid uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, p *listing.Params) ([]PublicProfile, error)

	// Delete removes the user and everything it owns. It returns the image
	// URLs that were referenced by the removed rows.
	Delete(ctx context.Context, uid uuid.UUID) (images []string, found bool, err error)

	ResetCodes(ctx context.Context, uid uuid.UUID) ([]string, error)

	// ChangePassword stores the new hash and consumes codeHash in one
	// transaction. ok is false when the code was already consumed.
	ChangePassword(ctx context.Context, uid uuid.UUID, passwordHash, codeHash string) (ok bool, err error)

	// SetProfileImage stores url and returns the image it replaced.
	SetProfileImage(ctx context.Context, uid uuid.UUID, url string) (previous *string, found bool, err error)
}
