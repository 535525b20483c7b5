package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/blogs"
	"github.com/eyecarehub/eyecare-server/comments"
)

func (s *Server) CreateCommentHandler() http.HandlerFunc {
	type request struct {
		Content string `json:"content"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid blog id")
			return
		}

		caller, ok := callerID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		var req request
		if err := decodeJSON(r, &req); err != nil || req.Content == "" {
			writeError(w, http.StatusBadRequest, "content is required")
			return
		}

		// The blog must exist and be visible to the commenter.
		blog, err := s.repos.Blogs.GetByID(r.Context(), blogID)
		if err != nil {
			if errors.Is(err, blogs.NotFoundErr) {
				writeError(w, http.StatusNotFound, "Blog not found")
				return
			}
			log.Error().Err(err).Msg("get blog failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}
		if blog.IsHidden && !s.canViewRestricted(r, blog.AuthorID) {
			writeError(w, http.StatusNotFound, "Blog not found")
			return
		}

		created, err := s.repos.Comments.Create(r.Context(), &comments.Comment{
			BlogID:  blogID,
			UserID:  caller,
			Content: req.Content,
		})
		if err != nil {
			log.Error().Err(err).Msg("create comment failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// ListCommentsHandler returns the visible comments on a blog, oldest first.
func (s *Server) ListCommentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid blog id")
			return
		}

		list, err := s.repos.Comments.ListByBlog(r.Context(), blogID)
		if err != nil {
			log.Error().Err(err).Msg("list comments failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		visible := make([]*comments.Comment, 0, len(list))
		for _, c := range list {
			if !c.IsHidden {
				visible = append(visible, c)
			}
		}
		writeJSON(w, http.StatusOK, visible)
	}
}

func (s *Server) DeleteCommentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid comment id")
			return
		}

		comment, err := s.repos.Comments.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, comments.NotFoundErr) {
				writeError(w, http.StatusNotFound, "Comment not found")
				return
			}
			log.Error().Err(err).Msg("get comment failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		if !s.canViewRestricted(r, comment.UserID) {
			writeError(w, http.StatusForbidden, "Only the commenter or an admin can delete a comment")
			return
		}

		if err := s.repos.Comments.Delete(r.Context(), id); err != nil {
			log.Error().Err(err).Msg("delete comment failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}
