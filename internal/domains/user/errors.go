package user

import "serialfic-backend/internal/shared/apperror"

// Authentication
var (
	ErrUsernameNotFound  = apperror.Auth("Username not found")
	ErrIncorrectPassword = apperror.Auth("Incorrect password")
	ErrInvalidResetCode  = apperror.Auth("Password reset code is incorrect or has already been used")
)

// Input
var (
	ErrUsernameNotAllowed = apperror.Input("Username is not allowed")
	ErrSamePassword       = apperror.Input("New password cannot be the same as the old password")
	ErrUserNotFound       = apperror.Input("User not found")
	ErrProfileNotFound    = apperror.Input("Username not found")
)

// Password rules, checked in this order.
var (
	ErrPasswordTooShort  = apperror.Input("Password must be at least 12 characters long")
	ErrPasswordLowercase = apperror.Input("Password must contain at least 1 lowercase letter")
	ErrPasswordUppercase = apperror.Input("Password must contain at least 1 uppercase letter")
	ErrPasswordNumber    = apperror.Input("Password must contain at least 1 number")
	ErrPasswordSpecial   = apperror.Input("Password must contain at least 1 special character")
)
