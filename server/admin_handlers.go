package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/adminactions"
	"github.com/eyecarehub/eyecare-server/blogs"
	"github.com/eyecarehub/eyecare-server/comments"
	"github.com/eyecarehub/eyecare-server/users"
)

// CreateAdminActionHandler applies a moderation action and records it in the
// audit trail. The side effect and the audit row are written in that order;
// an audit failure after a successful side effect is reported as an error.
func (s *Server) CreateAdminActionHandler() http.HandlerFunc {
	type request struct {
		ActionType      string `json:"action_type"`
		TargetUserID    *int64 `json:"target_user_id"`
		TargetBlogID    *int64 `json:"target_blog_id"`
		TargetCommentID *int64 `json:"target_comment_id"`
		Reason          string `json:"reason"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := callerID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		var req request
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := s.applyAdminAction(r, req.ActionType, req.TargetUserID, req.TargetBlogID, req.TargetCommentID); err != nil {
			s.respondAdminActionError(w, err)
			return
		}

		created, err := s.repos.AdminActions.Create(r.Context(), &adminactions.Action{
			AdminID:         adminID,
			TargetUserID:    req.TargetUserID,
			TargetBlogID:    req.TargetBlogID,
			TargetCommentID: req.TargetCommentID,
			ActionType:      req.ActionType,
			Reason:          req.Reason,
		})
		if err != nil {
			log.Error().Err(err).Msg("record admin action failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

var badActionErr = errors.New("unknown or mistargeted action")

func (s *Server) applyAdminAction(r *http.Request, actionType string, userID, blogID, commentID *int64) error {
	ctx := r.Context()

	switch actionType {
	case adminactions.ActionBanUser, adminactions.ActionUnbanUser:
		if userID == nil {
			return badActionErr
		}
		return s.repos.Users.SetBanned(ctx, *userID, actionType == adminactions.ActionBanUser)
	case adminactions.ActionHideBlog, adminactions.ActionUnhideBlog:
		if blogID == nil {
			return badActionErr
		}
		return s.repos.Blogs.SetHidden(ctx, *blogID, actionType == adminactions.ActionHideBlog)
	case adminactions.ActionHideComment, adminactions.ActionUnhideComment:
		if commentID == nil {
			return badActionErr
		}
		return s.repos.Comments.SetHidden(ctx, *commentID, actionType == adminactions.ActionHideComment)
	}
	return badActionErr
}

func (s *Server) respondAdminActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, badActionErr):
		writeError(w, http.StatusBadRequest, "Unknown action type or missing target")
	case errors.Is(err, users.NotFoundErr):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, blogs.NotFoundErr):
		writeError(w, http.StatusNotFound, "Blog not found")
	case errors.Is(err, comments.NotFoundErr):
		writeError(w, http.StatusNotFound, "Comment not found")
	default:
		log.Error().Err(err).Msg("apply admin action failed")
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func (s *Server) ListAdminActionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid admin id")
			return
		}

		actions, err := s.repos.AdminActions.ListByAdmin(r.Context(), adminID)
		if err != nil {
			log.Error().Err(err).Msg("list admin actions failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusOK, actions)
	}
}

// ListLoginHistoryHandler lets a user read their own login history; admins
// can read anyone's.
func (s *Server) ListLoginHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		if !s.canViewRestricted(r, userID) {
			writeError(w, http.StatusForbidden, "Cannot view another user's login history")
			return
		}

		attempts, err := s.repos.Logins.ListByUser(r.Context(), userID)
		if err != nil {
			log.Error().Err(err).Msg("list login history failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusOK, attempts)
	}
}
