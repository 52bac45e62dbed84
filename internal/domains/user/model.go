package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a row of the users table. Password holds the bcrypt hash.
type User struct {
	UID          uuid.UUID
	Email        string
	Username     string
	Password     string
	ProfileImage *string
	JoinedAt     time.Time
}

// PublicProfile is everything about a user that other users may see.
type PublicProfile struct {
	UID      uuid.UUID `json:"uid"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Image    *string   `json:"image"`
	JoinedAt time.Time `json:"joined_at"`
}

func (u *User) Profile() PublicProfile {
	return PublicProfile{
		UID:      u.UID,
		Email:    u.Email,
		Username: u.Username,
		Image:    u.ProfileImage,
		JoinedAt: u.JoinedAt,
	}
}

// reservedUsernames collide with routes under /user or impersonate staff.
var reservedUsernames = map[string]struct{}{
	"admin": {}, "administrator": {}, "root": {}, "system": {}, "support": {},
	"moderator": {}, "staff": {}, "official": {}, "api": {}, "null": {},
	"undefined": {}, "anonymous": {}, "user": {}, "users": {}, "me": {},
	"save": {}, "signup": {}, "login": {}, "logout": {}, "delete": {},
	"password": {}, "profile": {}, "book": {}, "books": {}, "tag": {},
}

// IsReservedUsername reports whether name may not be registered.
func IsReservedUsername(name string) bool {
	_, ok := reservedUsernames[name]
	return ok
}
