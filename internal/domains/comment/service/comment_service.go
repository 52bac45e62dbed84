package service

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/comment"
	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/visibility"
)

type commentService struct {
	repo     comment.Repository
	chapters comment.ChapterLookup
	policy   visibility.Checker
}

func NewCommentService(repo comment.Repository, chapters comment.ChapterLookup, policy visibility.Checker) comment.Service {
	return &commentService{repo: repo, chapters: chapters, policy: policy}
}

// ========================================
// READS
// ========================================

// requireVisibleChapter fails unless requester may see the chapter.
func (s *commentService) requireVisibleChapter(ctx context.Context, requester *uuid.UUID, bid uuid.UUID, number int) error {
	publishedOnly, err := s.policy.IsRestrictedToPublished(ctx, requester, bid)
	if err != nil {
		return apperror.FromDB(err)
	}
	exists, err := s.chapters.Exists(ctx, bid, number, publishedOnly)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !exists {
		return comment.ErrChapterNotFound
	}
	return nil
}

func (s *commentService) List(ctx context.Context, requester *uuid.UUID, bid uuid.UUID, number int) ([]comment.Comment, error) {
	if err := s.requireVisibleChapter(ctx, requester, bid, number); err != nil {
		return nil, err
	}

	comments, err := s.repo.List(ctx, bid, number)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return nonNil(comments), nil
}

func (s *commentService) Replies(ctx context.Context, requester *uuid.UUID, t comment.Target) ([]comment.Comment, error) {
	if err := s.requireVisibleChapter(ctx, requester, t.BID, t.Number); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, t)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if !exists {
		return nil, comment.ErrCommentNotFound
	}

	replies, err := s.repo.Replies(ctx, t)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return nonNil(replies), nil
}

func nonNil(comments []comment.Comment) []comment.Comment {
	if comments == nil {
		return []comment.Comment{}
	}
	return comments
}

// ========================================
// WRITES
// ========================================

// Create posts on a published chapter. The owner cannot comment on a draft
// either.
func (s *commentService) Create(ctx context.Context, uid, bid uuid.UUID, number int, req comment.CreateCommentRequest) (uuid.UUID, error) {
	cid, ok, err := s.repo.Create(ctx, uid, bid, number, req.Message, req.RepliesTo)
	if err != nil {
		return uuid.Nil, apperror.FromDB(err)
	}
	if ok {
		return cid, nil
	}

	published, err := s.chapters.Exists(ctx, bid, number, true)
	if err != nil {
		return uuid.Nil, apperror.FromDB(err)
	}
	if !published {
		return uuid.Nil, comment.ErrChapterNotFound
	}
	return uuid.Nil, comment.ErrNoReplyTarget
}

func (s *commentService) Update(ctx context.Context, uid uuid.UUID, t comment.Target, req comment.UpdateCommentRequest) error {
	ok, err := s.repo.Update(ctx, uid, t, req.Message)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return comment.ErrNotAuthor
	}
	return nil
}

func (s *commentService) Delete(ctx context.Context, uid uuid.UUID, t comment.Target) error {
	ok, err := s.repo.Delete(ctx, uid, t)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return comment.ErrNotAuthor
	}
	return nil
}

// ========================================
// LIKES
// ========================================

func (s *commentService) Like(ctx context.Context, uid uuid.UUID, t comment.Target) (int, error) {
	likes, ok, err := s.repo.Like(ctx, uid, t)
	if err != nil {
		return 0, apperror.FromDB(err)
	}
	if ok {
		return likes, nil
	}
	return 0, s.likeFailure(ctx, t, comment.ErrAlreadyLiked)
}

func (s *commentService) Unlike(ctx context.Context, uid uuid.UUID, t comment.Target) (int, error) {
	likes, ok, err := s.repo.Unlike(ctx, uid, t)
	if err != nil {
		return 0, apperror.FromDB(err)
	}
	if ok {
		return likes, nil
	}
	return 0, s.likeFailure(ctx, t, comment.ErrNotLiked)
}

func (s *commentService) likeFailure(ctx context.Context, t comment.Target, stateErr error) error {
	published, err := s.chapters.Exists(ctx, t.BID, t.Number, true)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !published {
		return comment.ErrChapterNotFound
	}

	exists, err := s.repo.Exists(ctx, t)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !exists {
		return comment.ErrCommentNotFound
	}
	return stateErr
}
