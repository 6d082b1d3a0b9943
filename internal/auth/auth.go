// Package auth issues and verifies player access tokens and hashes passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"battleships/internal/apperrors"
	"battleships/internal/config"
	"battleships/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "battleships"

// Principal is the authenticated acting player.
type Principal struct {
	PlayerID string
	Username string
}

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: time.Now}
}

// Issue signs an HS256 token for the player.
func (i *TokenIssuer) Issue(player domain.Player) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   player.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: player.Username,
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

func (i *TokenIssuer) Verify(token string) (Principal, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperrors.Wrap(apperrors.CodeUnauthenticated, "token expired", err)
		}
		return Principal{}, apperrors.Wrap(apperrors.CodeUnauthenticated, "invalid token", err)
	}
	if parsed.Subject == "" {
		return Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "token has no subject")
	}
	return Principal{PlayerID: parsed.Subject, Username: parsed.Username}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. An empty hash never
// matches; mirrored remote accounts have no local password.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Require returns the acting player or an unauthenticated error.
func Require(ctx context.Context) (Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return Principal{}, apperrors.New(apperrors.CodeUnauthenticated, "You must be logged in to do that.")
	}
	return p, nil
}
