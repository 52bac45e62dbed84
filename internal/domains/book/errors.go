package book

import "serialfic-backend/internal/shared/apperror"

var (
	ErrBookNotFound       = apperror.Input("Book not found")
	ErrBookNotOwned       = apperror.Input("No such book was written by the user")
	ErrAlreadyPublished   = apperror.Input("Book is already published")
	ErrAlreadyUnpublished = apperror.Input("Book is already unpublished")
	ErrTagNotOnBook       = apperror.Input("Book does not have this tag")
)
