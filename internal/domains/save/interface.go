package save

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/book"
)

type Service interface {
	Save(ctx context.Context, uid, bid uuid.UUID, req SaveBookRequest) error
	Get(ctx context.Context, uid, bid uuid.UUID) (*Save, error)
	List(ctx context.Context, uid uuid.UUID) ([]SavedBook, error)
	Update(ctx context.Context, uid, bid uuid.UUID, req UpdateSaveRequest) error
	Delete(ctx context.Context, uid, bid uuid.UUID) error
}

type Repository interface {
	// Save shelves a book the user can see. ok is false when the book is
	// unknown or an unpublished book of someone else.
	Save(ctx context.Context, uid, bid uuid.UUID, status Status) (ok bool, err error)
	Get(ctx context.Context, uid, bid uuid.UUID) (*Save, error)
	List(ctx context.Context, uid uuid.UUID) ([]Save, error)
	Update(ctx context.Context, uid, bid uuid.UUID, status Status) (bool, error)
	Delete(ctx context.Context, uid, bid uuid.UUID) (bool, error)
}

// BookReader is the part of the book service the shelf listing needs.
type BookReader interface {
	Get(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) (*book.WrappedBook, error)
}
