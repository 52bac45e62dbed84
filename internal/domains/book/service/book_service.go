package service

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/book"
	"serialfic-backend/internal/infrastructure/imagehost"
	"serialfic-backend/internal/infrastructure/queue"
	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/listing"
	"serialfic-backend/internal/shared/utils"
	"serialfic-backend/internal/shared/visibility"
	"serialfic-backend/pkg/logger"
)

type bookService struct {
	repo     book.Repository
	wrapper  book.Wrapper
	profiles book.ProfileSource
	policy   visibility.Checker
	images   imagehost.Host
	cleaner  queue.ImageCleaner
}

func NewBookService(
	repo book.Repository,
	wrapper book.Wrapper,
	profiles book.ProfileSource,
	policy visibility.Checker,
	images imagehost.Host,
	cleaner queue.ImageCleaner,
) book.Service {
	return &bookService{
		repo:     repo,
		wrapper:  wrapper,
		profiles: profiles,
		policy:   policy,
		images:   images,
		cleaner:  cleaner,
	}
}

// ========================================
// READS
// ========================================

func (s *bookService) Get(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) (*book.WrappedBook, error) {
	publishedOnly, err := s.policy.IsRestrictedToPublished(ctx, requester, bid)
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	b, err := s.repo.GetByID(ctx, bid, publishedOnly)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if b == nil {
		return nil, book.ErrBookNotFound
	}
	return s.wrapper.Wrap(ctx, nil, b, publishedOnly)
}

func (s *bookService) List(ctx context.Context, p listing.Params) ([]book.WrappedBook, error) {
	p.Normalize()
	if err := utils.ValidationError(p.Validate()); err != nil {
		return nil, err
	}

	books, err := s.repo.List(ctx, book.ListFilter{PublishedOnly: true}, &p)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return wrapAll(ctx, s.wrapper, s.profiles, nil, books, true)
}

// ListByUser lists the books of username. Their drafts are included only when
// the requester is that user.
func (s *bookService) ListByUser(ctx context.Context, requester *uuid.UUID, username string, p listing.Params) ([]book.WrappedBook, error) {
	p.Normalize()
	if err := utils.ValidationError(p.Validate()); err != nil {
		return nil, err
	}

	owner, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	publishedOnly := requester == nil || *requester != owner.UID

	books, err := s.repo.List(ctx, book.ListFilter{PublishedOnly: publishedOnly, WrittenBy: &owner.UID}, &p)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return wrapAll(ctx, s.wrapper, s.profiles, owner, books, publishedOnly)
}

// ========================================
// WRITES
// ========================================

// Create inserts the book and then uploads its cover under the book id. A
// failed upload removes the book again.
func (s *bookService) Create(ctx context.Context, uid uuid.UUID, req book.CreateBookRequest) (*book.CreateBookResponse, error) {
	bid, err := s.repo.Create(ctx, uid, req.Title, req.Blurb)
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	resp := &book.CreateBookResponse{}
	resp.Book.BID = bid
	if req.Cover == "" {
		return resp, nil
	}

	url, err := imagehost.Store(ctx, s.images, bid.String(), req.Cover)
	if err != nil {
		if _, _, delErr := s.repo.Delete(ctx, uid, bid); delErr != nil {
			logger.Error("remove book after failed cover upload", delErr)
		}
		return nil, err
	}

	if _, ok, err := s.repo.Update(ctx, uid, bid, book.Patch{SetImage: true, Image: &url}); err != nil || !ok {
		queue.DiscardImages(ctx, s.cleaner, url)
		if err != nil {
			return nil, apperror.FromDB(err)
		}
		return nil, book.ErrBookNotOwned
	}

	resp.Book.Image = url
	logger.Info("book created", map[string]interface{}{"book_id": bid.String(), "user_id": uid.String()})
	return resp, nil
}

func (s *bookService) Update(ctx context.Context, uid, bid uuid.UUID, req book.UpdateBookRequest) error {
	patch := book.Patch{Title: req.Title, Blurb: req.Blurb}

	var uploaded string
	if req.Cover != nil {
		patch.SetImage = true
		if *req.Cover != "" {
			// Upload only for books the user owns, under the book's id.
			owns, err := s.repo.UserOwnsBook(ctx, bid, uid)
			if err != nil {
				return apperror.FromDB(err)
			}
			if !owns {
				return book.ErrBookNotOwned
			}
			url, err := imagehost.Store(ctx, s.images, bid.String(), *req.Cover)
			if err != nil {
				return err
			}
			uploaded = url
			patch.Image = &uploaded
		}
	}

	previous, ok, err := s.repo.Update(ctx, uid, bid, patch)
	if err != nil {
		queue.DiscardImages(ctx, s.cleaner, uploaded)
		return apperror.FromDB(err)
	}
	if !ok {
		queue.DiscardImages(ctx, s.cleaner, uploaded)
		return book.ErrBookNotOwned
	}

	if patch.SetImage && previous != nil && *previous != uploaded {
		queue.DiscardImages(ctx, s.cleaner, *previous)
	}
	return nil
}

func (s *bookService) Delete(ctx context.Context, uid, bid uuid.UUID) error {
	image, ok, err := s.repo.Delete(ctx, uid, bid)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return book.ErrBookNotOwned
	}
	if image != nil {
		queue.DiscardImages(ctx, s.cleaner, *image)
	}

	logger.Info("book deleted", map[string]interface{}{"book_id": bid.String(), "user_id": uid.String()})
	return nil
}

// ========================================
// PUBLISHING
// ========================================

func (s *bookService) Publish(ctx context.Context, uid, bid uuid.UUID) error {
	return s.setPublished(ctx, uid, bid, true)
}

func (s *bookService) Unpublish(ctx context.Context, uid, bid uuid.UUID) error {
	return s.setPublished(ctx, uid, bid, false)
}

// setPublished flips the state in one conditional statement. When nothing
// changed, ownership decides which error the caller sees.
func (s *bookService) setPublished(ctx context.Context, uid, bid uuid.UUID, published bool) error {
	changed, err := s.repo.SetPublished(ctx, uid, bid, published)
	if err != nil {
		return apperror.FromDB(err)
	}
	if changed {
		return nil
	}

	owns, err := s.repo.UserOwnsBook(ctx, bid, uid)
	if err != nil {
		return apperror.FromDB(err)
	}
	switch {
	case !owns:
		return book.ErrBookNotOwned
	case published:
		return book.ErrAlreadyPublished
	default:
		return book.ErrAlreadyUnpublished
	}
}

// ========================================
// TAGS
// ========================================

func (s *bookService) Tag(ctx context.Context, uid, bid uuid.UUID, tagName string) error {
	added, err := s.repo.AddTag(ctx, uid, bid, tagName)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !added {
		return book.ErrBookNotOwned
	}
	return nil
}

func (s *bookService) Untag(ctx context.Context, uid, bid uuid.UUID, tagName string) error {
	removed, err := s.repo.RemoveTag(ctx, uid, bid, tagName)
	if err != nil {
		return apperror.FromDB(err)
	}
	if removed {
		return nil
	}

	owns, err := s.repo.UserOwnsBook(ctx, bid, uid)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !owns {
		return book.ErrBookNotOwned
	}
	return book.ErrTagNotOnBook
}
