// Package auth drives the external-login callback flow and the access-token
// refresh flow, tying the OAuth provider, the token manager, and the account
// store together.
package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/eyecarehub/eyecare-server/loginhistory"
	"github.com/eyecarehub/eyecare-server/token"
	"github.com/eyecarehub/eyecare-server/users"
)

const defaultProviderTimeout = 8 * time.Second

// Repos holds the store dependencies for the Service.
type Repos struct {
	Users  users.Repo
	Logins loginhistory.Repo
}

// ClientMetadata is what the edge captured about the caller; it goes into
// the login history verbatim.
type ClientMetadata struct {
	IP        string
	UserAgent string
	Device    string
	Location  string
}

// CallbackRequest carries the query parameters Google sent back plus the
// client metadata from the incoming request.
type CallbackRequest struct {
	Code       string
	ErrorParam string
	State      string
	Client     ClientMetadata
}

// CallbackResult is the terminal success state: a token pair and the opaque
// state value echoed back unmodified so the frontend can resume its flow.
type CallbackResult struct {
	AccessToken  string
	RefreshToken string
	State        string
}

// Service orchestrates login callbacks and refreshes. Each request is
// handled independently; the only shared mutable state is the store.
type Service struct {
	repos           Repos
	provider        Provider
	tokenManager    *token.Manager
	providerTimeout time.Duration
	nowTime         func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = now
	}
}

// WithProviderTimeout bounds the two outbound provider calls. Without a
// bound an unresponsive provider would stall the request indefinitely.
func WithProviderTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.providerTimeout = d
		}
	}
}

func NewService(repos Repos, provider Provider, tokenManager *token.Manager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Logins == nil {
		return nil, errors.New("[NewService] Logins repo is required")
	}
	if provider == nil {
		return nil, errors.New("[NewService] provider is required")
	}
	if tokenManager == nil {
		return nil, errors.New("[NewService] tokenManager is required")
	}

	s := &Service{
		repos:           repos,
		provider:        provider,
		tokenManager:    tokenManager,
		providerTimeout: defaultProviderTimeout,
		nowTime:         time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// AuthorizationURL returns the provider URL to redirect the browser to.
// The caller's opaque state value rides along and comes back on the callback.
func (s *Service) AuthorizationURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// HandleGoogleCallback processes the provider's redirect: exchange the code,
// fetch the identity, find or create the local account, issue a token pair,
// persist the refresh token (overwriting any prior value), and record the
// login. No transaction spans the whole flow - a crash between account
// creation and token storage just means the next login issues a fresh token.
func (s *Service) HandleGoogleCallback(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	if req.ErrorParam != "" {
		return nil, errors.Wrapf(ProviderRejectedErr, "google oauth error: %s", req.ErrorParam)
	}
	if req.Code == "" {
		return nil, MissingCodeErr
	}

	providerCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	providerToken, err := s.provider.ExchangeCode(providerCtx, req.Code)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] ExchangeCode")
	}

	identity, err := s.provider.FetchIdentity(providerCtx, providerToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] FetchIdentity")
	}

	user, err := s.resolveAccount(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] resolveAccount")
	}

	accessToken, err := s.tokenManager.CreateAccessToken(AccessClaims(user))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] CreateAccessToken")
	}

	refreshToken, err := s.tokenManager.CreateRefreshToken(user.ID, user.Email, 0)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] CreateRefreshToken")
	}

	if err := s.repos.Users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] SetRefreshToken")
	}

	if err := s.repos.Users.SetLastLogin(ctx, user.ID, s.nowTime()); err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] SetLastLogin")
	}

	if err := s.repos.Logins.Append(ctx, &loginhistory.Attempt{
		UserID:    user.ID,
		Timestamp: s.nowTime(),
		IPAddress: req.Client.IP,
		UserAgent: req.Client.UserAgent,
		Device:    req.Client.Device,
		Location:  req.Client.Location,
		IsSuccess: true,
	}); err != nil {
		return nil, errors.Wrap(err, "[Service.HandleGoogleCallback] append login history")
	}

	return &CallbackResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		State:        req.State,
	}, nil
}

// resolveAccount looks the account up by email and creates it on first
// login. Concurrent first-time logins for the same email race on the
// insert; the unique-email constraint is the disambiguator, so a loser
// falls back to the lookup instead of failing.
func (s *Service) resolveAccount(ctx context.Context, identity *Identity) (*users.User, error) {
	user, err := s.repos.Users.GetByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, users.NotFoundErr) {
		return nil, errors.Wrap(err, "[Service.resolveAccount] GetByEmail")
	}

	created, err := s.repos.Users.Create(ctx, &users.User{
		Email:      identity.Email,
		UserType:   users.TypeGeneral,
		AuthMethod: users.AuthGoogle,
		GoogleID:   identity.GoogleID,
		Name:       identity.Name,
		Picture:    identity.Picture,
	})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, users.EmailTakenErr) {
		return s.repos.Users.GetByEmail(ctx, identity.Email)
	}
	return nil, errors.Wrap(err, "[Service.resolveAccount] Create")
}

// Refresh validates a refresh token and issues a new access token built from
// the account's current attributes, re-read from the store rather than taken
// from the old claims. The refresh token itself is reused until its expiry;
// rotating it on every use would be the stricter policy.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenManager.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, token.TokenExpiredErr) {
			return "", RefreshExpiredErr
		}
		return "", RefreshInvalidErr
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return "", RefreshInvalidErr
	}

	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.NotFoundErr) {
			return "", RefreshInvalidErr
		}
		return "", errors.Wrap(err, "[Service.Refresh] GetByID")
	}

	current, err := s.repos.Users.GetRefreshToken(ctx, userID)
	if err != nil {
		return "", errors.Wrap(err, "[Service.Refresh] GetRefreshToken")
	}
	// The stored slot is the source of truth: a token that still verifies
	// cryptographically but no longer matches has been rotated out.
	if current == "" || current != refreshToken {
		return "", RefreshInvalidErr
	}

	access, err := s.tokenManager.CreateAccessToken(AccessClaims(user))
	if err != nil {
		return "", errors.Wrap(err, "[Service.Refresh] CreateAccessToken")
	}
	return access, nil
}

// AccessClaims builds the access-token claim set from the account's current
// attributes. The field names are part of the wire contract with the frontend.
func AccessClaims(user *users.User) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":     user.ID,
		"email":       user.Email,
		"user_type":   user.UserType,
		"auth_method": user.AuthMethod,
		"is_banned":   user.IsBanned,
		"name":        user.Name,
		"picture":     user.Picture,
	}
}
