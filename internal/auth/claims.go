package auth

import (
	"context"
	"errors"
)

type contextKey string

const userClaimsKey contextKey = "userClaims"

// ErrUnauthenticated is returned when no user claims are present on the
// context.
var ErrUnauthenticated = errors.New("unauthenticated")

// WithUserClaims attaches user claims to the context.
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// UserClaimsFromContext extracts user claims from the context, if present.
func UserClaimsFromContext(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*UserClaims)
	return claims, ok
}

// RequireAuth returns the authenticated user's claims or
// ErrUnauthenticated.
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := UserClaimsFromContext(ctx)
	if !ok || claims.UID == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
