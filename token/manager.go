// Package token issues and verifies the signed, time-bound tokens used for
// API access and session refresh.
package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	TokenExpiredErr   = errors.New("token has expired")
	TokenMalformedErr = errors.New("invalid token")
)

// Manager signs claim sets with a process-wide symmetric secret (HS256) and
// verifies them. Tokens are never persisted here; validity is purely a
// function of signature and expiry. Revocation is the caller's concern.
type Manager struct {
	secret             []byte
	issuer             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

// WithTokenExpiry overrides the default access and refresh token lifetimes.
func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		if accessTokenExpiry > 0 {
			m.accessTokenExpiry = accessTokenExpiry
		}
		if refreshTokenExpiry > 0 {
			m.refreshTokenExpiry = refreshTokenExpiry
		}
	}
}

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// New creates a Manager. The secret must stay constant for the process
// lifetime: every token signed with it dies with it.
func New(secret []byte, issuer string, options ...ManagerOption) *Manager {
	m := &Manager{
		secret:             secret,
		issuer:             issuer,
		accessTokenExpiry:  15 * time.Minute,
		refreshTokenExpiry: 7 * 24 * time.Hour,
		nowFunc:            time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// CreateAccessToken merges the caller's claims with iat/exp/iss and signs.
// The standard claims are set last so callers cannot extend their own expiry.
func (m *Manager) CreateAccessToken(userClaims jwt.MapClaims) (string, error) {
	now := m.nowFunc()

	claims := make(jwt.MapClaims, len(userClaims)+3)
	for k, v := range userClaims {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(m.accessTokenExpiry).Unix()
	claims["iss"] = m.issuer

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.CreateAccessToken] SignedString")
	}
	return signed, nil
}

// CreateRefreshToken signs the long-lived refresh claim set for an account.
// A ttl of zero uses the configured default (7 days).
func (m *Manager) CreateRefreshToken(userID int64, email string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = m.refreshTokenExpiry
	}
	now := m.nowFunc()

	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"iss":   m.issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.CreateRefreshToken] SignedString")
	}
	return signed, nil
}

// Verify decodes a token and checks its signature and expiry. An expired
// signature maps to TokenExpiredErr; every other decode or signature failure
// maps to TokenMalformedErr. Both are authentication failures for the caller,
// never something to retry.
func (m *Manager) Verify(rawToken string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.nowFunc))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, TokenExpiredErr
		}
		return nil, TokenMalformedErr
	}
	if !parsed.Valid {
		return nil, TokenMalformedErr
	}
	return claims, nil
}
