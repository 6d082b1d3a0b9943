package auth

import (
	"context"
	"testing"
	"time"

	"battleships/internal/apperrors"
	"battleships/internal/config"
	"battleships/internal/domain"
)

func newIssuer(now time.Time) *TokenIssuer {
	i := NewTokenIssuer(&config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour})
	i.now = func() time.Time { return now }
	return i
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	i := newIssuer(now)

	token, exp, err := i.Issue(domain.Player{ID: "p1", Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", exp)
	}

	p, err := i.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.PlayerID != "p1" || p.Username != "alice" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestVerifyExpired(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	token, _, err := newIssuer(now).Issue(domain.Player{ID: "p1", Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = newIssuer(now.Add(2 * time.Hour)).Verify(token)
	if !apperrors.HasCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := time.Now()
	token, _, err := newIssuer(now).Issue(domain.Player{ID: "p1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := NewTokenIssuer(&config.Config{JWTSecret: "other", TokenTTL: time.Hour})
	if _, err := other.Verify(token); !apperrors.HasCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := other.Verify("not-a-token"); !apperrors.HasCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated for garbage, got %v", err)
	}
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Fatal("expected mismatch")
	}
	if CheckPassword("", "") {
		t.Fatal("empty hash must never match")
	}
}

func TestRequire(t *testing.T) {
	if _, err := Require(context.Background()); !apperrors.HasCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	ctx := WithPrincipal(context.Background(), Principal{PlayerID: "p1"})
	p, err := Require(ctx)
	if err != nil || p.PlayerID != "p1" {
		t.Fatalf("unexpected %+v %v", p, err)
	}
}
