package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"staybook/pkg/domain"
)

const defaultTTL = 24 * time.Hour

var (
	// ErrNoToken is returned when no credential is presented.
	ErrNoToken = errors.New("authentication required")

	// ErrInvalidToken is returned when a credential fails verification,
	// has expired, or has been revoked.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the signed session payload: the user's public fields only.
// The password hash is never embedded.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id carried in the subject claim.
func (c Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// Manager issues and validates HS256 JWT session tokens.
// Tokens stay valid until natural expiry unless a revoker is configured,
// in which case logout denylists them for their remaining lifetime.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoker TokenRevoker
}

// NewManager builds a session manager. A nil revoker means stateless logout.
func NewManager(secret string, ttl time.Duration, revoker TokenRevoker) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoker: revoker,
	}, nil
}

// TTL returns the validity window applied to issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a signed token embedding the user's id, name, and email.
func (m *Manager) Issue(user domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, and the revocation denylist, then returns
// the embedded claims.
func (m *Manager) Verify(token string) (Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Claims{}, err
	}
	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(token)
		if err != nil {
			return Claims{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return Claims{}, ErrInvalidToken
		}
	}
	return claims, nil
}

// Revoke denylists a token for the remainder of its lifetime. Without a
// configured revoker, logout is client-side only and this is a no-op.
// Tokens that no longer verify have nothing left to revoke.
func (m *Manager) Revoke(token string) error {
	if m.revoker == nil {
		return nil
	}
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return m.revoker.Revoke(token, remaining)
}

func (m *Manager) parse(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
