package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const (
	usernameClaim = "username"
	isAdminClaim  = "isAdmin"
)

// TokenIssuer signs and validates HS256 tokens carrying the caller claims
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenIssuer creates an issuer signing with secret. Tokens never expire when ttl is zero.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a signed token for claims
func (i *TokenIssuer) Sign(claims Claims) (string, error) {
	now := i.now()

	token := jwt.New()
	if err := token.Set(usernameClaim, claims.Username); err != nil {
		return "", err
	}
	if err := token.Set(isAdminClaim, claims.IsAdmin); err != nil {
		return "", err
	}
	if err := token.Set(jwt.IssuedAtKey, now); err != nil {
		return "", err
	}
	if i.ttl > 0 {
		if err := token.Set(jwt.ExpirationKey, now.Add(i.ttl)); err != nil {
			return "", err
		}
	}
	if err := token.Set(jwt.JwtIDKey, uuid.NewString()); err != nil {
		return "", err
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), i.key))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}

// Parse validates the signature and expiry of token and returns its claims
func (i *TokenIssuer) Parse(token string) (*Claims, error) {
	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256(), i.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(i.now)))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims Claims
	if err := parsed.Get(usernameClaim, &claims.Username); err != nil || claims.Username == "" {
		return nil, errors.New("missing username claim")
	}
	if err := parsed.Get(isAdminClaim, &claims.IsAdmin); err != nil {
		return nil, errors.New("missing isAdmin claim")
	}
	return &claims, nil
}

// FromRequest parses the bearer token of the Authorization header. It returns
// nil claims and no error when the request carries no token.
func (i *TokenIssuer) FromRequest(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	return i.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer")))
}
