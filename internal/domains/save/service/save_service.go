package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/book"
	"serialfic-backend/internal/domains/save"
	"serialfic-backend/internal/shared/apperror"
)

type saveService struct {
	repo  save.Repository
	books save.BookReader
}

func NewSaveService(repo save.Repository, books save.BookReader) save.Service {
	return &saveService{repo: repo, books: books}
}

func (s *saveService) Save(ctx context.Context, uid, bid uuid.UUID, req save.SaveBookRequest) error {
	ok, err := s.repo.Save(ctx, uid, bid, req.Status)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return save.ErrBookNotFound
	}
	return nil
}

func (s *saveService) Get(ctx context.Context, uid, bid uuid.UUID) (*save.Save, error) {
	sv, err := s.repo.Get(ctx, uid, bid)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if sv == nil {
		return nil, save.ErrNotSaved
	}
	return sv, nil
}

// List wraps every saved book the user can still see. Books unpublished
// since they were saved drop out of the listing but stay on the shelf.
func (s *saveService) List(ctx context.Context, uid uuid.UUID) ([]save.SavedBook, error) {
	saves, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	out := make([]save.SavedBook, 0, len(saves))
	for _, sv := range saves {
		wrapped, err := s.books.Get(ctx, &uid, sv.BID)
		if errors.Is(err, book.ErrBookNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, save.SavedBook{WrappedBook: *wrapped, Status: sv.Status, SavedAt: sv.SavedAt})
	}
	return out, nil
}

func (s *saveService) Update(ctx context.Context, uid, bid uuid.UUID, req save.UpdateSaveRequest) error {
	ok, err := s.repo.Update(ctx, uid, bid, req.Status)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return save.ErrInvalidUpdate
	}
	return nil
}

func (s *saveService) Delete(ctx context.Context, uid, bid uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, uid, bid)
	if err != nil {
		return apperror.FromDB(err)
	}
	if !ok {
		return save.ErrNotSaved
	}
	return nil
}
