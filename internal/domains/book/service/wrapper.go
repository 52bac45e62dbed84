package service

import (
	"context"

	"github.com/google/uuid"

	"serialfic-backend/internal/domains/book"
	"serialfic-backend/internal/domains/user"
	"serialfic-backend/internal/shared/apperror"
)

// bookWrapper attaches the author profile, chapters and tags to book rows.
// Every book read goes through it so the response shape is the same no matter
// which endpoint produced it.
type bookWrapper struct {
	repo     book.Repository
	profiles book.ProfileSource
}

func NewWrapper(repo book.Repository, profiles book.ProfileSource) book.Wrapper {
	return &bookWrapper{repo: repo, profiles: profiles}
}

// Wrap fetches the owner's profile when owner is nil and the tags when the
// row does not carry them already. Chapters follow the same publishedOnly flag
// as the book itself.
func (w *bookWrapper) Wrap(ctx context.Context, owner *user.PublicProfile, b *book.Book, publishedOnly bool) (*book.WrappedBook, error) {
	if owner == nil {
		p, err := w.profiles.GetProfile(ctx, b.WrittenBy)
		if err != nil {
			return nil, err
		}
		owner = p
	}

	chapters, err := w.repo.Chapters(ctx, b.BID, publishedOnly)
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	if chapters == nil {
		chapters = []book.ChapterSummary{}
	}
	b.Chapters = chapters

	if b.Tags == nil {
		tags, err := w.repo.Tags(ctx, b.BID)
		if err != nil {
			return nil, apperror.FromDB(err)
		}
		if tags == nil {
			tags = []string{}
		}
		b.Tags = tags
	}

	return &book.WrappedBook{User: *owner, Book: b}, nil
}

// wrapAll wraps a listing. Profiles are looked up once per author; owner, when
// set, is used for every row.
func wrapAll(ctx context.Context, w book.Wrapper, profiles book.ProfileSource, owner *user.PublicProfile, books []book.Book, publishedOnly bool) ([]book.WrappedBook, error) {
	seen := make(map[uuid.UUID]*user.PublicProfile)
	out := make([]book.WrappedBook, 0, len(books))

	for i := range books {
		author := owner
		if author == nil {
			author = seen[books[i].WrittenBy]
		}
		if author == nil {
			p, err := profiles.GetProfile(ctx, books[i].WrittenBy)
			if err != nil {
				return nil, err
			}
			seen[books[i].WrittenBy] = p
			author = p
		}

		wrapped, err := w.Wrap(ctx, author, &books[i], publishedOnly)
		if err != nil {
			return nil, err
		}
		out = append(out, *wrapped)
	}
	return out, nil
}
