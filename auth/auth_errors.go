package auth

import "github.com/pkg/errors"

var (
	MissingCodeErr      = errors.New("authorization code is missing")
	ProviderRejectedErr = errors.New("provider rejected the login")
	RefreshExpiredErr   = errors.New("refresh token has expired")

	// RefreshInvalidErr covers a bad signature, a malformed token, a missing
	// account, and a stored-value mismatch alike, so the response never leaks
	// which check failed.
	RefreshInvalidErr = errors.New("invalid refresh token")
)
