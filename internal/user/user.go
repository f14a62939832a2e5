package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is the stored user record. PasswordHash never leaves the
// repository/auth boundary; use Profile for anything sent to a client.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Username     *string
	FirstName    *string
	LastName     *string
	Phone        *string
	CreatedAt    time.Time
}

// Profile is the safe view of a User.
type Profile struct {
	ID        int64
	Email     string
	Username  *string
	FirstName *string
	LastName  *string
	Phone     *string
	CreatedAt time.Time
}

// Profile projects u onto its safe view.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

type CreateParams struct {
	Email        string
	PasswordHash string
	Username     *string
	FirstName    *string
	LastName     *string
	Phone        *string
}

// UpdateParams carries the profile fields a user may change. Email and
// password are deliberately absent.
type UpdateParams struct {
	Username  *string `validate:"omitempty,max=64"`
	FirstName *string `validate:"omitempty,max=100"`
	LastName  *string `validate:"omitempty,max=100"`
	Phone     *string `validate:"omitempty,max=32"`
}
