package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/eyecarehub/eyecare-server/token"
)

const testIssuer = "eye_care"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestCreateAccessToken_RoundTrip(t *testing.T) {
	m := token.New(testSecret, testIssuer)

	signed, err := m.CreateAccessToken(jwt.MapClaims{
		"user_id":     int64(42),
		"email":       "jane@example.com",
		"user_type":   "general",
		"auth_method": "google",
		"is_banned":   false,
		"name":        "Jane Doe",
		"picture":     "https://example.com/jane.png",
	})
	require.NoError(t, err)

	claims, err := m.Verify(signed)
	require.NoError(t, err)

	require.Equal(t, "jane@example.com", claims["email"])
	require.Equal(t, "general", claims["user_type"])
	require.Equal(t, "google", claims["auth_method"])
	require.Equal(t, false, claims["is_banned"])
	require.Equal(t, "Jane Doe", claims["name"])
	require.Equal(t, testIssuer, claims["iss"])
	require.Contains(t, claims, "iat")
	require.Contains(t, claims, "exp")
}

func TestCreateAccessToken_CallerCannotOverrideStandardClaims(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	m := token.New(testSecret, testIssuer, token.WithNowFunc(func() time.Time { return now }))

	signed, err := m.CreateAccessToken(jwt.MapClaims{
		"user_id": int64(1),
		"exp":     now.Add(100 * 365 * 24 * time.Hour).Unix(),
		"iss":     "someone-else",
	})
	require.NoError(t, err)

	claims, err := m.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, testIssuer, claims["iss"])
	require.Equal(t, float64(now.Add(15*time.Minute).Unix()), claims["exp"])
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	m := token.New(testSecret, testIssuer, token.WithNowFunc(func() time.Time { return now }))

	signed, err := m.CreateAccessToken(jwt.MapClaims{"user_id": int64(1)})
	require.NoError(t, err)

	// Just inside the lifetime.
	now = issuedAt.Add(15*time.Minute - time.Second)
	_, err = m.Verify(signed)
	require.NoError(t, err)

	// Just past it.
	now = issuedAt.Add(15*time.Minute + time.Second)
	_, err = m.Verify(signed)
	require.ErrorIs(t, err, token.TokenExpiredErr)
}

func TestVerify_WrongSecret(t *testing.T) {
	m := token.New(testSecret, testIssuer)
	other := token.New([]byte("another-secret-another-secret-ab"), testIssuer)

	signed, err := m.CreateAccessToken(jwt.MapClaims{"user_id": int64(1)})
	require.NoError(t, err)

	_, err = other.Verify(signed)
	require.ErrorIs(t, err, token.TokenMalformedErr)
}

func TestVerify_Malformed(t *testing.T) {
	m := token.New(testSecret, testIssuer)

	for _, raw := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := m.Verify(raw)
		require.ErrorIs(t, err, token.TokenMalformedErr)
	}
}

func TestCreateRefreshToken_Claims(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	m := token.New(testSecret, testIssuer, token.WithNowFunc(func() time.Time { return now }))

	signed, err := m.CreateRefreshToken(7, "jane@example.com", 0)
	require.NoError(t, err)

	claims, err := m.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "7", claims["sub"])
	require.Equal(t, "jane@example.com", claims["email"])
	require.Equal(t, testIssuer, claims["iss"])
	require.Equal(t, float64(now.Add(7*24*time.Hour).Unix()), claims["exp"])
}

func TestCreateRefreshToken_CustomTTL(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	m := token.New(testSecret, testIssuer, token.WithNowFunc(func() time.Time { return now }))

	signed, err := m.CreateRefreshToken(7, "jane@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := m.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, float64(now.Add(time.Hour).Unix()), claims["exp"])
}

func TestWithTokenExpiry(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	m := token.New(testSecret, testIssuer,
		token.WithTokenExpiry(time.Minute, time.Hour),
		token.WithNowFunc(func() time.Time { return clock }))

	signed, err := m.CreateAccessToken(jwt.MapClaims{"user_id": int64(1)})
	require.NoError(t, err)

	clock = now.Add(2 * time.Minute)
	_, err = m.Verify(signed)
	require.ErrorIs(t, err, token.TokenExpiredErr)
}
