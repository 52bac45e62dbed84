package service

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/chapter"
	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/visibility"
	"serialfic-backend/pkg/logger"
)

type chapterService struct {
	repo   chapter.Repository
	policy visibility.Checker
}

func NewChapterService(repo chapter.Repository, policy visibility.Checker) chapter.Service {
	return &chapterService{repo: repo, policy: policy}
}

// ========================================
// READS
// ========================================

func (s *chapterService) List(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) ([]chapter.Summary, error) {
	publishedOnly, err := s.policy.IsRestrictedToPublished(ctx, requester, bid)
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	visible, err := s.repo.BookVisible(ctx, bid, publishedOnly)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if !visible {
		return nil, chapter.ErrBookNotFound
	}

	chapters, err := s.repo.List(ctx, bid, publishedOnly)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if chapters == nil {
		chapters = []chapter.Summary{}
	}
	return chapters, nil
}

// Get returns a chapter visible to requester. Reading a published chapter
// counts as a read and, for logged-in readers, moves their bookmark.
func (s *chapterService) Get(ctx context.Context, requester *uuid.UUID, bid uuid.UUID, number int) (*chapter.Chapter, error) {
	publishedOnly, err := s.policy.IsRestrictedToPublished(ctx, requester, bid)
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	c, err := s.repo.Get(ctx, bid, number, publishedOnly)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if c == nil {
		return nil, chapter.ErrChapterNotFound
	}

	if c.PublishedAt != nil {
		counted, err := s.repo.RecordRead(ctx, requester, bid, number)
		if err != nil {
			logger.Warn("record chapter read failed", err)
		} else if counted {
			c.Reads++
		}
	}

	// Only the owner sees when a chapter was drafted.
	if publishedOnly {
		c.CreatedAt = nil
	}
	return c, nil
}

func (s *chapterService) LastRead(ctx context.Context, uid, bid uuid.UUID) (*chapter.LastRead, error) {
	lr, err := s.repo.LastRead(ctx, uid, bid)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if lr == nil {
		return nil, chapter.ErrNothingRead
	}
	return lr, nil
}

// ========================================
// WRITES
// ========================================

func (s *chapterService) Create(ctx context.Context, uid, bid uuid.UUID, req chapter.CreateChapterRequest) (int, error) {
	number, ok, err := s.repo.Create(ctx, uid, bid, req.Title, req.Content)
	if err != nil {
		return 0, apperror.FromDB(err)
	}
	if !ok {
		return 0, chapter.ErrBookNotOwned
	}

	logger.Info("chapter created", map[string]interface{}{"book_id": bid.String(), "number": number})
	return number, nil
}

func (s *chapterService) Update(ctx context.Context, uid, bid uuid.UUID, number int, req chapter.UpdateChapterRequest) error {
	ok, err := s.repo.Update(ctx, uid, bid, number, chapter.Patch{Title: req.Title, Content: req.Content})
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return chapter.ErrChapterNotOwned
	}
	return nil
}

func (s *chapterService) Delete(ctx context.Context, uid, bid uuid.UUID, number int) error {
	ok, err := s.repo.Delete(ctx, uid, bid, number)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return chapter.ErrChapterNotOwned
	}
	return nil
}

func (s *chapterService) Publish(ctx context.Context, uid, bid uuid.UUID, number int) error {
	return s.setPublished(ctx, uid, bid, number, true)
}

func (s *chapterService) Unpublish(ctx context.Context, uid, bid uuid.UUID, number int) error {
	return s.setPublished(ctx, uid, bid, number, false)
}

func (s *chapterService) setPublished(ctx context.Context, uid, bid uuid.UUID, number int, published bool) error {
	changed, err := s.repo.SetPublished(ctx, uid, bid, number, published)
	if err != nil {
		return apperror.FromDB(err)
	}
	if changed {
		return nil
	}

	owns, err := s.repo.UserOwnsChapter(ctx, bid, number, uid)
	if err != nil {
		return apperror.FromDB(err)
	}
	switch {
	case !owns:
		return chapter.ErrChapterNotOwned
	case published:
		return chapter.ErrAlreadyPublished
	default:
		return chapter.ErrAlreadyUnpublished
	}
}

// ========================================
// LIKES
// ========================================

func (s *chapterService) Like(ctx context.Context, uid, bid uuid.UUID, number int) (int, error) {
	likes, ok, err := s.repo.Like(ctx, uid, bid, number)
	if err != nil {
		return 0, apperror.FromDB(err)
	}
	if ok {
		return likes, nil
	}
	return 0, s.likeFailure(ctx, bid, number, chapter.ErrAlreadyLiked)
}

func (s *chapterService) Unlike(ctx context.Context, uid, bid uuid.UUID, number int) (int, error) {
	likes, ok, err := s.repo.Unlike(ctx, uid, bid, number)
	if err != nil {
		return 0, apperror.FromDB(err)
	}
	if ok {
		return likes, nil
	}
	return 0, s.likeFailure(ctx, bid, number, chapter.ErrNotLiked)
}

// likeFailure tells a chapter that cannot be liked apart from a like state
// that was already in place.
func (s *chapterService) likeFailure(ctx context.Context, bid uuid.UUID, number int, stateErr error) error {
	exists, err := s.repo.Exists(ctx, bid, number, true)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !exists {
		return chapter.ErrChapterNotFound
	}
	return stateErr
}
