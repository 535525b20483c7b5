// Package server wires the HTTP surface: routing, middleware, and handlers.
package server

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/adminactions"
	"github.com/eyecarehub/eyecare-server/auth"
	"github.com/eyecarehub/eyecare-server/blogs"
	"github.com/eyecarehub/eyecare-server/comments"
	"github.com/eyecarehub/eyecare-server/internal/config"
	"github.com/eyecarehub/eyecare-server/loginhistory"
	"github.com/eyecarehub/eyecare-server/token"
	"github.com/eyecarehub/eyecare-server/users"
)

// Repos holds all repository dependencies for the Server.
type Repos struct {
	Users        users.Repo
	Blogs        blogs.Repo
	Comments     comments.Repo
	AdminActions adminactions.Repo
	Logins       loginhistory.Repo
}

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config *config.Config
	auth   *auth.Service
	tokens *token.Manager
	repos  Repos
}

func New(cfg *config.Config, repos Repos, provider auth.Provider, tokenManager *token.Manager) (*Server, error) {
	authService, err := auth.NewService(
		auth.Repos{Users: repos.Users, Logins: repos.Logins},
		provider,
		tokenManager,
		auth.WithProviderTimeout(cfg.ProviderTimeout),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] failed to create auth service")
	}

	s := &Server{
		env:    cfg.Env,
		mux:    http.NewServeMux(),
		config: cfg,
		auth:   authService,
		tokens: tokenManager,
		repos:  repos,
	}
	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}
