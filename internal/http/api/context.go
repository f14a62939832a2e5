package api

import (
	"context"

	"github.com/MrJamesThe3rd/finboard/internal/user"
)

type ctxKey struct{}

// WithUser stores the authenticated user on ctx.
func WithUser(ctx context.Context, u user.Profile) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// CurrentUser returns the user stored by WithUser.
func CurrentUser(ctx context.Context) (user.Profile, bool) {
	u, ok := ctx.Value(ctxKey{}).(user.Profile)
	return u, ok
}

// UserID returns the authenticated user's id, or 0 outside an
// authenticated route.
func UserID(ctx context.Context) int64 {
	u, _ := CurrentUser(ctx)
	return u.ID
}
