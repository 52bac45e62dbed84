package save

import "serialfic-backend/internal/shared/apperror"

var (
	ErrBookNotFound  = apperror.Input("Book not found")
	ErrNotSaved      = apperror.Input("User did not save such a book")
	ErrInvalidUpdate = apperror.Input("New status is invalid or user did not save such a book")
)
