package session

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"staybook/pkg/domain"
)

const testSecret = "test-secret"

func newTestManager(t *testing.T, revoker TokenRevoker) *Manager {
	t.Helper()
	m, err := NewManager(testSecret, time.Hour, revoker)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func testUser() domain.User {
	return domain.User{
		ID:           7,
		Name:         "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret-hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t, nil)
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID() != 7 {
		t.Fatalf("unexpected user id: %d", claims.UserID())
	}
	if claims.Name != "alice" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenPayloadNeverContainsPassword(t *testing.T) {
	m := newTestManager(t, nil)
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("malformed token: %q", token)
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if strings.Contains(string(payload), "password") || strings.Contains(string(payload), "secret-hash") {
		t.Fatalf("payload leaks credential material: %s", payload)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	m := newTestManager(t, nil)
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)
	if _, err := m.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t, nil)
	expired := Claims{
		Name:  "alice",
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	if _, err := m.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	other, err := NewManager("another-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	m := newTestManager(t, nil)
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign token, got %v", err)
	}
}

func TestRevokedTokenFailsVerification(t *testing.T) {
	m := newTestManager(t, NewMemoryTokenRevoker())
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("verify before revoke: %v", err)
	}
	if err := m.Revoke(token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after revoke, got %v", err)
	}
}

func TestRevokeWithoutRevokerIsNoOp(t *testing.T) {
	m := newTestManager(t, nil)
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := m.Revoke(token); err != nil {
		t.Fatalf("revoke without revoker: %v", err)
	}
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("stateless token should stay valid until expiry: %v", err)
	}
}
