package comment

import "serialfic-backend/internal/shared/apperror"

var (
	ErrChapterNotFound = apperror.Input("Chapter not found")
	ErrCommentNotFound = apperror.Input("Comment not found")
	ErrNotAuthor       = apperror.Input("Comment not found or user did not write it")
	ErrNoReplyTarget   = apperror.Input("No such comment found")
	ErrAlreadyLiked    = apperror.Input("Comment is already liked")
	ErrNotLiked        = apperror.Input("Comment is not liked")
)
