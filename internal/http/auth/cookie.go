package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/juju/clock"

	"github.com/MrJamesThe3rd/finboard/internal/session"
)

var errBadCookie = errors.New("malformed session cookie")

// Cookies signs session ids into HS256 tokens carried by the session cookie.
// The token only proves the id was issued here; the session store still
// decides whether it is valid.
type Cookies struct {
	name   string
	secret []byte
	secure bool
	clock  clock.Clock
}

func NewCookies(name, secret string, secure bool, clk clock.Clock) *Cookies {
	return &Cookies{name: name, secret: []byte(secret), secure: secure, clock: clk}
}

func (c *Cookies) Name() string {
	return c.name
}

// Set writes the cookie for sess.
func (c *Cookies) Set(w http.ResponseWriter, sess session.Session) error {
	now := c.clock.Now()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}).SignedString(c.secret)
	if err != nil {
		return fmt.Errorf("signing session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sess.ExpiresAt.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Clear expires the cookie on the client.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Present reports whether the request carries a session cookie at all.
func (c *Cookies) Present(r *http.Request) bool {
	_, err := r.Cookie(c.name)
	return err == nil
}

// SessionID returns the session id carried by the request cookie, or "" when
// there is no cookie. A cookie that fails verification is an error.
func (c *Cookies) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", nil
	}

	return c.parse(cookie.Value)
}

func (c *Cookies) parse(raw string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errBadCookie, err)
	}

	if claims.ID == "" {
		return "", errBadCookie
	}

	return claims.ID, nil
}
