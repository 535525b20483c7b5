package auth

import (
	"context"
	"fmt"
)

// Identity is the profile the external provider vouches for. Email is the
// only field the flow requires; everything else is decoration.
type Identity struct {
	Email    string
	Name     string
	Picture  string
	GoogleID string
}

// Provider abstracts the external OAuth provider: one call trades the
// authorization code for a provider access token, a second fetches the
// identity profile. Implementations make a single attempt per call and
// surface rejections as *ProviderError; the service never retries.
type Provider interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchIdentity(ctx context.Context, providerAccessToken string) (*Identity, error)
}

// ProviderError reports an upstream rejection and carries the provider's
// HTTP status so the caller can surface it.
type ProviderError struct {
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Detail)
}
