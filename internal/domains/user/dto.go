package user

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"serialfic-backend/internal/shared/apperror"
	"serialfic-backend/internal/shared/listing"
)

// PasswordRules enforce the password policy. Rules run in order and the
// first failing rule decides the message.
var PasswordRules = []validation.Rule{
	validation.Required.Error(ErrPasswordTooShort.Message),
	validation.RuneLength(12, 0).Error(ErrPasswordTooShort.Message),
	validation.Match(regexp.MustCompile(`[a-z]`)).Error(ErrPasswordLowercase.Message),
	validation.Match(regexp.MustCompile(`[A-Z]`)).Error(ErrPasswordUppercase.Message),
	validation.Match(regexp.MustCompile(`[0-9]`)).Error(ErrPasswordNumber.Message),
	validation.Match(regexp.MustCompile(`[^a-zA-Z0-9]`)).Error(ErrPasswordSpecial.Message),
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidatePassword checks password against PasswordRules.
func ValidatePassword(password string) error {
	if err := validation.Validate(password, PasswordRules...); err != nil {
		return apperror.Input(err.Error())
	}
	return nil
}

// ========================================
// AUTH DTOs
// ========================================

type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *SignupRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
}

func (r *SignupRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("Email must be provided"),
			validation.Length(3, 254).Error("Email is invalid"),
			is.EmailFormat.Error("Email is invalid"),
		),
		validation.Field(&r.Username,
			validation.Required.Error("Username must be provided"),
			validation.RuneLength(1, 32).Error("Username must be at most 32 characters long"),
			validation.Match(usernamePattern).Error("Username may only contain letters, numbers, '.', '_' and '-'"),
			validation.By(notReserved),
		),
		validation.Field(&r.Password, PasswordRules...),
	)
}

func notReserved(value interface{}) error {
	name, _ := value.(string)
	if IsReservedUsername(strings.ToLower(name)) {
		return ErrUsernameNotAllowed
	}
	return nil
}

// UserRef identifies the user an auth endpoint acted on.
type UserRef struct {
	UID uuid.UUID `json:"uid"`
}

type SignupResponse struct {
	User  UserRef  `json:"user"`
	Codes []string `json:"codes"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required.Error("Username must be provided")),
		validation.Field(&r.Password, validation.Required.Error("Password must be provided")),
	)
}

// ChangePasswordRequest trades a one-time reset code for a new password.
// The password policy is applied after the code has been accepted.
type ChangePasswordRequest struct {
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (r *ChangePasswordRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
}

func (r *ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Code, validation.Required.Error("Password reset code must be provided")),
		validation.Field(&r.Password, validation.Required.Error("Password must be provided")),
	)
}

// ========================================
// PROFILE DTOs
// ========================================

// ProfileImageRequest carries the new image as the image host expects it.
type ProfileImageRequest struct {
	Profile string `json:"profile"`
}

func (r *ProfileImageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Profile, validation.Required.Error("Profile image must be provided")),
	)
}

type ProfileImageResponse struct {
	User struct {
		Image string `json:"image"`
	} `json:"user"`
}

// UserSortFields are the columns users can be ordered by.
var UserSortFields = listing.SortFields{
	"username":  "username",
	"joined_at": "joined_at",
}

const DefaultUserSort = "+username"
