package auth

import "context"

// Claims identifies the caller of a request
type Claims struct {
	Username string
	IsAdmin  bool
}

type contextKey struct {
	name string
}

var claimsKey = &contextKey{"claims"}

// WithContextClaims stores the authenticated caller in ctx
func WithContextClaims(ctx context.Context, claims *Claims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, claimsKey, claims)
}

// ContextClaims returns the authenticated caller, or nil for anonymous requests
func ContextClaims(ctx context.Context) *Claims {
	if ctx != nil {
		if val, ok := ctx.Value(claimsKey).(*Claims); ok {
			return val
		}
	}
	return nil
}

// IsAdmin reports whether the caller stored in ctx is an administrator
func IsAdmin(ctx context.Context) bool {
	claims := ContextClaims(ctx)
	return claims != nil && claims.IsAdmin
}

// IsUserOrAdmin reports whether the caller stored in ctx is username or an administrator
func IsUserOrAdmin(ctx context.Context, username string) bool {
	claims := ContextClaims(ctx)
	return claims != nil && (claims.IsAdmin || claims.Username == username)
}
