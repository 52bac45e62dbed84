package visibility

import (
	"context"

	"github.com/google/uuid"
)

// OwnershipChecker answers whether uid wrote the book bid.
type OwnershipChecker interface {
	UserOwnsBook(ctx context.Context, bid, uid uuid.UUID) (bool, error)
}

// Checker is the read-side contract services depend on.
type Checker interface {
	IsRestrictedToPublished(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) (bool, error)
}

// Policy decides whether a requester may see unpublished content of a book.
type Policy struct {
	books OwnershipChecker
}

func NewPolicy(books OwnershipChecker) *Policy {
	return &Policy{books: books}
}

// IsRestrictedToPublished is false only when requester is present and owns
// bid. Anonymous requesters and non-owners see published rows only.
func (p *Policy) IsRestrictedToPublished(ctx context.Context, requester *uuid.UUID, bid uuid.UUID) (bool, error) {
	if requester == nil {
		return true, nil
	}
	owns, err := p.books.UserOwnsBook(ctx, bid, *requester)
	if err != nil {
		return true, err
	}
	return !owns, nil
}
