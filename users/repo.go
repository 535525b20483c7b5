package users

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	NotFoundErr   = errors.New("user not found")
	EmailTakenErr = errors.New("email already registered")
)

// Repo is the account store. Create returns EmailTakenErr on a unique-email
// violation so concurrent first-time logins can fall back to a lookup.
type Repo interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateRole(ctx context.Context, id int64, userType string) error
	SetBanned(ctx context.Context, id int64, banned bool) error
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error

	// Refresh-token slot. SetRefreshToken unconditionally overwrites any
	// prior value: exactly one live refresh token per account, no history.
	// GetRefreshToken returns "" when no token is stored.
	GetRefreshToken(ctx context.Context, id int64) (string, error)
	SetRefreshToken(ctx context.Context, id int64, refreshToken string) error
}
