package chapter

import (
	"context"

	"github.com/google/uuid"
)

// Service - chapter business logic. requester is nil for anonymous callers.
type Service interface {
	List(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) ([]Summary, error)
	Get(ctx context.Context, requester *uuid.UUID, bid uuid.UUID, number int) (*Chapter, error)
	LastRead(ctx context.Context, uid, bid uuid.UUID) (*LastRead, error)

	Create(ctx context.Context, uid, bid uuid.UUID, req CreateChapterRequest) (int, error)
	Update(ctx context.Context, uid, bid uuid.UUID, number int, req UpdateChapterRequest) error
	Delete(ctx context.Context, uid, bid uuid.UUID, number int) error

	Publish(ctx context.Context, uid, bid uuid.UUID, number int) error
	Unpublish(ctx context.Context, uid, bid uuid.UUID, number int) error

	Like(ctx context.Context, uid, bid uuid.UUID, number int) (int, error)
	Unlike(ctx context.Context, uid, bid uuid.UUID, number int) (int, error)
}

// Repository - chapter data access. publishedOnly hides drafted chapters
// and every chapter of a drafted book.
type Repository interface {
	BookVisible(ctx context.Context, bid uuid.UUID, publishedOnly bool) (bool, error)
	List(ctx context.Context, bid uuid.UUID, publishedOnly bool) ([]Summary, error)
	Get(ctx context.Context, bid uuid.UUID, number int, publishedOnly bool) (*Chapter, error)
	Exists(ctx context.Context, bid uuid.UUID, number int, publishedOnly bool) (bool, error)
	UserOwnsChapter(ctx context.Context, bid uuid.UUID, number int, uid uuid.UUID) (bool, error)

	// RecordRead counts a read of a published chapter of a published book
	// and, for a known reader, marks it as their latest read in the book.
	// counted is false when the chapter or its book is a draft.
	RecordRead(ctx context.Context, reader *uuid.UUID, bid uuid.UUID, number int) (counted bool, err error)
	LastRead(ctx context.Context, uid, bid uuid.UUID) (*LastRead, error)

	// Create assigns the next number of the book. ok is false when uid does
	// not own bid.
	Create(ctx context.Context, uid, bid uuid.UUID, title, content string) (number int, ok bool, err error)
	Update(ctx context.Context, uid, bid uuid.UUID, number int, p Patch) (bool, error)
	Delete(ctx context.Context, uid, bid uuid.UUID, number int) (bool, error)
	SetPublished(ctx context.Context, uid, bid uuid.UUID, number int, published bool) (bool, error)

	// Like and Unlike return the new like count; ok is false when the
	// chapter is not likeable or the like state did not change.
	Like(ctx context.Context, uid, bid uuid.UUID, number int) (likes int, ok bool, err error)
	Unlike(ctx context.Context, uid, bid uuid.UUID, number int) (likes int, ok bool, err error)
}
