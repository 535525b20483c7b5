// Package googleauth implements the Google side of the login flow: building
// the authorization URL, exchanging the code, and fetching the userinfo
// profile.
package googleauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/eyecarehub/eyecare-server/auth"
)

// Google's OAuth2 endpoints. Fixed rather than discovered: the flow only
// ever talks to these three URLs.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// Client implements auth.Provider against Google. Each call is a single
// attempt; an upstream rejection comes back as *auth.ProviderError carrying
// Google's HTTP status.
type Client struct {
	oauthConfig *oauth2.Config
	userinfoURL string
	httpClient  *http.Client
}

var _ auth.Provider = (*Client)(nil)

type ClientOption func(*Client)

// WithEndpoints overrides the provider URLs (tests).
func WithEndpoints(authURL, tokenURL, userinfoURL string) ClientOption {
	return func(c *Client) {
		c.oauthConfig.Endpoint.AuthURL = authURL
		c.oauthConfig.Endpoint.TokenURL = tokenURL
		c.userinfoURL = userinfoURL
	}
}

// WithHTTPClient overrides the HTTP client used for outbound calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(clientID, clientSecret, redirectURI string, options ...ClientOption) *Client {
	c := &Client{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   googleAuthURL,
				TokenURL:  googleTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"openid", "email", "profile"},
		},
		userinfoURL: googleUserinfoURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// AuthCodeURL builds the authorization URL with response_type=code and the
// configured client id, redirect URI, and scopes. An empty state is omitted.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state)
}

// ExchangeCode POSTs the authorization code to the token endpoint and
// returns the provider access token. Google rejecting the code (expired,
// reused, redirect URI mismatch) surfaces as *auth.ProviderError.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", &auth.ProviderError{
				StatusCode: retrieveErr.Response.StatusCode,
				Detail:     string(retrieveErr.Body),
			}
		}
		return "", errors.Wrap(err, "[Client.ExchangeCode] token exchange")
	}
	return tok.AccessToken, nil
}

// FetchIdentity GETs the userinfo endpoint with a bearer header and returns
// the normalized identity. Non-2xx surfaces as *auth.ProviderError.
func (c *Client) FetchIdentity(ctx context.Context, providerAccessToken string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userinfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.FetchIdentity] build request")
	}
	req.Header.Set("Authorization", "Bearer "+providerAccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.FetchIdentity] userinfo request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &auth.ProviderError{StatusCode: resp.StatusCode, Detail: string(body)}
	}

	var info struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "[Client.FetchIdentity] decode userinfo")
	}
	if info.Email == "" {
		return nil, errors.New("[Client.FetchIdentity] userinfo response missing email")
	}

	return &auth.Identity{
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
		GoogleID: info.Sub,
	}, nil
}
