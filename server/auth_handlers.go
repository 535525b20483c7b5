package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/auth"
)

// GoogleLoginHandler starts the login flow by redirecting the browser to
// Google's consent screen. An optional whereFrom query parameter rides along
// as the OAuth state so the frontend can resume where the user left off.
func (s *Server) GoogleLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get("whereFrom")
		http.Redirect(w, r, s.auth.AuthorizationURL(state), http.StatusTemporaryRedirect)
	}
}

// GoogleCallbackHandler terminates the login flow: the orchestrator exchanges
// the code and issues the token pair, and the browser is redirected back to
// the frontend with both tokens in the fragment.
func (s *Server) GoogleCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		req := auth.CallbackRequest{
			Code:       query.Get("code"),
			ErrorParam: query.Get("error"),
			State:      query.Get("state"),
			Client: auth.ClientMetadata{
				IP:        clientIP(r),
				UserAgent: r.UserAgent(),
				Device:    r.Header.Get("X-Device-ID"),
				Location:  r.Header.Get("X-Client-Location"),
			},
		}
		result, err := s.auth.HandleGoogleCallback(r.Context(), req)
		if err != nil {
			s.respondCallbackError(w, err, req.ErrorParam)
			return
		}

		redirectURL := fmt.Sprintf("%s/#/login?jwt=%s&refresh=%s",
			s.config.FrontendHostURL,
			url.QueryEscape(result.AccessToken),
			url.QueryEscape(result.RefreshToken))
		if result.State != "" {
			redirectURL += fmt.Sprintf("&whereFrom=%s&doit=1", url.QueryEscape(result.State))
		}
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}
}

func (s *Server) respondCallbackError(w http.ResponseWriter, err error, errorParam string) {
	var providerErr *auth.ProviderError

	switch {
	case errors.Is(err, auth.MissingCodeErr):
		writeError(w, http.StatusBadRequest, "Authorization code is missing")
	case errors.Is(err, auth.ProviderRejectedErr):
		// The upstream reason (e.g. access_denied) goes back to the caller.
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Google login was cancelled or rejected: %s", errorParam))
	case errors.As(err, &providerErr):
		// Surface the upstream status so the frontend can distinguish a
		// Google outage from a local failure.
		writeError(w, providerErr.StatusCode, "Failed to communicate with Google OAuth")
	default:
		log.Error().Err(err).Msg("google callback failed")
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// RefreshHandler trades a valid refresh token for a fresh access token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	type request struct {
		RefreshToken string `json:"refresh_token"`
	}
	type response struct {
		AccessToken string `json:"access_token"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, "refresh_token is required")
			return
		}

		accessToken, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.RefreshExpiredErr):
				writeError(w, http.StatusUnauthorized, "Refresh token has expired")
			case errors.Is(err, auth.RefreshInvalidErr):
				writeError(w, http.StatusUnauthorized, "Invalid refresh token")
			default:
				log.Error().Err(err).Msg("refresh failed")
				writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			}
			return
		}

		writeJSON(w, http.StatusOK, response{AccessToken: accessToken})
	}
}
