package chapter

import "serialfic-backend/internal/shared/apperror"

var (
	ErrChapterNotFound    = apperror.Input("Chapter not found")
	ErrChapterNotOwned    = apperror.Input("No such chapter was written by the user")
	ErrBookNotFound       = apperror.Input("Book not found")
	ErrBookNotOwned       = apperror.Input("No such book was written by the user")
	ErrAlreadyPublished   = apperror.Input("Chapter is already published")
	ErrAlreadyUnpublished = apperror.Input("Chapter is already unpublished")
	ErrAlreadyLiked       = apperror.Input("Chapter is already liked")
	ErrNotLiked           = apperror.Input("Chapter is not liked")
	ErrNothingRead        = apperror.Input("User has not read any chapter of this book")
)
