package comment

import (
	"context"

	"github.com/google/uuid"
)

// Service - comment business logic. Reads follow the visibility of the
// chapter; writes and likes need a published chapter.
type Service interface {
	List(ctx context.Context, requester *uuid.UUID, bid uuid.UUID, number int) ([]Comment, error)
	Replies(ctx context.Context, requester *uuid.UUID, t Target) ([]Comment, error)

	Create(ctx context.Context, uid, bid uuid.UUID, number int, req CreateCommentRequest) (uuid.UUID, error)
	Update(ctx context.Context, uid uuid.UUID, t Target, req UpdateCommentRequest) error
	Delete(ctx context.Context, uid uuid.UUID, t Target) error

	Like(ctx context.Context, uid uuid.UUID, t Target) (int, error)
	Unlike(ctx context.Context, uid uuid.UUID, t Target) (int, error)
}

type Repository interface {
	List(ctx context.Context, bid uuid.UUID, number int) ([]Comment, error)
	Replies(ctx context.Context, t Target) ([]Comment, error)
	Exists(ctx context.Context, t Target) (bool, error)

	// Create inserts into a published chapter. ok is false when the chapter
	// is not published or repliesTo is not a comment on it.
	Create(ctx context.Context, uid, bid uuid.UUID, number int, message string, repliesTo *uuid.UUID) (cid uuid.UUID, ok bool, err error)
	Update(ctx context.Context, uid uuid.UUID, t Target, message string) (bool, error)
	Delete(ctx context.Context, uid uuid.UUID, t Target) (bool, error)

	Like(ctx context.Context, uid uuid.UUID, t Target) (likes int, ok bool, err error)
	Unlike(ctx context.Context, uid uuid.UUID, t Target) (likes int, ok bool, err error)
}

// ChapterLookup is the part of the chapter repository comments need.
type ChapterLookup interface {
	Exists(ctx context.Context, bid uuid.UUID, number int, publishedOnly bool) (bool, error)
}
