package auth

import (
	"errors"

	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/user"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not authenticated")
)

type RegisterParams struct {
	Email     string  `validate:"required,email,max=254"`
	Password  string  `validate:"required,min=8,max=128"`
	Username  *string `validate:"omitempty,max=64"`
	FirstName *string `validate:"omitempty,max=100"`
	LastName  *string `validate:"omitempty,max=100"`
	Phone     *string `validate:"omitempty,max=32"`
}

type LoginParams struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Result is what a successful register or login hands back: the safe user
// view and the session the caller should set as a cookie.
type Result struct {
	User    user.Profile
	Session session.Session
}
