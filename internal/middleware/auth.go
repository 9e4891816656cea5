// Package middleware holds the Connect interceptors shared by every service.
package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/boardfund/internal/auth"
	"github.com/mmynk/boardfund/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// CallerKey is the context key for the authenticated caller address.
const CallerKey contextKey = "caller"

// GetCaller extracts the caller address from the context.
// Returns empty string if not found.
func GetCaller(ctx context.Context) models.Address {
	addr, _ := ctx.Value(CallerKey).(models.Address)
	return addr
}

// WithCaller returns a copy of ctx acting as addr.
func WithCaller(ctx context.Context, addr models.Address) context.Context {
	return context.WithValue(ctx, CallerKey, addr)
}

// Authenticate returns an interceptor that validates the bearer token and
// binds its address to the request context. Procedures listed in public
// also accept requests without a token. A token that is present but
// invalid is always rejected.
func Authenticate(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	anonymous := make(map[string]bool, len(public))
	for _, p := range public {
		anonymous[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				if anonymous[req.Spec().Procedure] {
					return next(ctx, req)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			addr, err := jwtManager.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithCaller(ctx, addr), req)
		}
	}
}
