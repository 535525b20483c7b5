package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/users"
)

// CreateUserHandler registers a local (email + password) account.
func (s *Server) CreateUserHandler() http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		UserType string `json:"user_type"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Email == "" {
			writeError(w, http.StatusBadRequest, "email is required")
			return
		}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.UserType == "" {
			req.UserType = users.TypeGeneral
		}
		if !users.ValidType(req.UserType) || req.UserType == users.TypeAdmin {
			writeError(w, http.StatusBadRequest, "Invalid user type")
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("password hash failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		created, err := s.repos.Users.Create(r.Context(), &users.User{
			Email:        req.Email,
			PasswordHash: hash,
			UserType:     req.UserType,
			AuthMethod:   users.AuthLocal,
		})
		if err != nil {
			if errors.Is(err, users.EmailTakenErr) {
				writeError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			log.Error().Err(err).Msg("create user failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		user, err := s.repos.Users.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, users.NotFoundErr) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Error().Err(err).Msg("get user failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// UpdateUserRoleHandler lets a user change their own role, or an admin change
// anyone's.
func (s *Server) UpdateUserRoleHandler() http.HandlerFunc {
	type request struct {
		UserType string `json:"user_type"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		claims, _ := claimsFromContext(r)
		caller, ok := callerID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}
		if caller != id && claims["user_type"] != users.TypeAdmin {
			writeError(w, http.StatusForbidden, "Cannot change another user's role")
			return
		}

		var req request
		if err := decodeJSON(r, &req); err != nil || !users.ValidType(req.UserType) {
			writeError(w, http.StatusBadRequest, "Invalid user type")
			return
		}
		// Self-service role changes cannot grant admin.
		if req.UserType == users.TypeAdmin && claims["user_type"] != users.TypeAdmin {
			writeError(w, http.StatusForbidden, "Cannot self-assign admin")
			return
		}

		if err := s.repos.Users.UpdateRole(r.Context(), id, req.UserType); err != nil {
			if errors.Is(err, users.NotFoundErr) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Error().Err(err).Msg("update role failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"user_type": req.UserType})
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		if err := s.repos.Users.Delete(r.Context(), id); err != nil {
			if errors.Is(err, users.NotFoundErr) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Error().Err(err).Msg("delete user failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}
