package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/domain/user"
	"github.com/riskibarqy/tennis-league/internal/usecase"
)

func newTestManager(t *testing.T, clock clockwork.Clock) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: "test-secret", Issuer: "tennis-league", TTL: time.Hour}, clock)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestManager_IssueAndVerify(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	m := newTestManager(t, clock)

	token, expiresAt, err := m.Issue(user.Principal{UserID: "ops-1", Email: "ops@example.com", Roles: []string{user.RoleAdmin}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(clock.Now().Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	principal, err := m.VerifyAccessToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != "ops-1" || principal.Email != "ops@example.com" || !principal.HasRole(user.RoleAdmin) {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestManager_ExpiredToken(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	m := newTestManager(t, clock)

	token, _, err := m.Issue(user.Principal{UserID: "ops-1", Roles: []string{user.RoleAdmin}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	clock.Advance(2 * time.Hour)
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := m.VerifyAccessToken(context.Background(), token); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestManager_RejectsForeignTokens(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	m := newTestManager(t, clock)

	other, err := NewManager(Config{Secret: "other-secret", Issuer: "tennis-league", TTL: time.Hour}, clock)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	foreign, _, err := other.Issue(user.Principal{UserID: "ops-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(foreign); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}

	wrongIssuer, err := NewManager(Config{Secret: "test-secret", Issuer: "someone-else", TTL: time.Hour}, clock)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, _, err := wrongIssuer.Issue(user.Principal{UserID: "ops-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}

	none := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, Claims{TokenType: tokenTypeAccess})
	unsigned, err := none.SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Parse(unsigned); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for alg none, got %v", err)
	}
}

func TestManager_EmptyToken(t *testing.T) {
	m := newTestManager(t, clockwork.NewRealClock())
	if _, err := m.VerifyAccessToken(context.Background(), "  "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNewManager_Validation(t *testing.T) {
	if _, err := NewManager(Config{TTL: time.Hour}, nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewManager(Config{Secret: "s"}, nil); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}
