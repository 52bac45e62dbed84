package book

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/user"
	"serialfic-backend/internal/shared/listing"
)

// Service - book business logic. requester is nil for anonymous callers.
type Service interface {
	Create(ctx context.Context, uid uuid.UUID, req CreateBookRequest) (*CreateBookResponse, error)
	Get(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) (*WrappedBook, error)
	List(ctx context.Context, p listing.Params) ([]WrappedBook, error)
	ListByUser(ctx context.Context, requester *uuid.UUID, username string, p listing.Params) ([]WrappedBook, error)
	Update(ctx context.Context, uid, bid uuid.UUID, req UpdateBookRequest) error
	Delete(ctx context.Context, uid, bid uuid.UUID) error

	Publish(ctx context.Context, uid, bid uuid.UUID) error
	Unpublish(ctx context.Context, uid, bid uuid.UUID) error

	Tag(ctx context.Context, uid, bid uuid.UUID, tagName string) error
	Untag(ctx context.Context, uid, bid uuid.UUID, tagName string) error
}

// Repository - book data access. Every mutation is a single statement
// gated on written_by; the returned bool reports whether a row matched.
type Repository interface {
	Create(ctx context.Context, uid uuid.UUID, title, blurb string) (uuid.UUID, error)
	GetByID(ctx context.Context, bid uuid.UUID, publishedOnly bool) (*Book, error)
	List(ctx context.Context, f ListFilter, p *listing.Params) ([]Book, error)
	Chapters(ctx context.Context, bid uuid.UUID, publishedOnly bool) ([]ChapterSummary, error)
	Tags(ctx context.Context, bid uuid.UUID) ([]string, error)
	UserOwnsBook(ctx context.Context, bid, uid uuid.UUID) (bool, error)

	// Update applies p and returns the image the book had before.
	Update(ctx context.Context, uid, bid uuid.UUID, p Patch) (previousImage *string, ok bool, err error)
	Delete(ctx context.Context, uid, bid uuid.UUID) (image *string, ok bool, err error)
	SetPublished(ctx context.Context, uid, bid uuid.UUID, published bool) (bool, error)

	AddTag(ctx context.Context, uid, bid uuid.UUID, tagName string) (bool, error)
	RemoveTag(ctx context.Context, uid, bid uuid.UUID, tagName string) (bool, error)
}

// Wrapper assembles WrappedBook values.
type Wrapper interface {
	Wrap(ctx context.Context, owner *user.PublicProfile, b *Book, publishedOnly bool) (*WrappedBook, error)
}

// ProfileSource is the part of the user service books need.
type ProfileSource interface {
	GetProfile(ctx context.Context, uid uuid.UUID) (*user.PublicProfile, error)
	GetProfileByUsername(ctx context.Context, username string) (*user.PublicProfile, error)
}
