package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptyToken   = errors.New("empty token")
	ErrExpiredToken = errors.New("token has expired")
)

// Gate decides whether a stored token is usable. Tokens are parsed without
// verification: the console has no key, it only reads the exp claim. Tokens
// that are not JWTs are accepted as they are.
type Gate struct {
	store Store
	now   func() time.Time
}

func NewGate(store Store) *Gate {
	return &Gate{store: store, now: time.Now}
}

// Expiry returns the exp claim of a JWT, if it has one.
func Expiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (g *Gate) expired(token string) bool {
	exp, ok := Expiry(token)
	return ok && !g.now().Before(exp)
}

// Token returns the stored token, or "" when none is stored or it has expired.
func (g *Gate) Token(ctx context.Context) (string, error) {
	tok, err := g.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if tok == "" || g.expired(tok) {
		return "", nil
	}
	return tok, nil
}

func (g *Gate) LoggedIn(ctx context.Context) (bool, error) {
	tok, err := g.Token(ctx)
	return tok != "", err
}

// Login stores a token issued elsewhere.
func (g *Gate) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if g.expired(token) {
		return ErrExpiredToken
	}
	return g.store.Set(ctx, token)
}

// Logout forgets the token. Nothing is sent to the server.
func (g *Gate) Logout(ctx context.Context) error {
	return g.store.Clear(ctx)
}
