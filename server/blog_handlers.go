package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/blogs"
	"github.com/eyecarehub/eyecare-server/users"
)

func (s *Server) CreateBlogHandler() http.HandlerFunc {
	type request struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Visibility string `json:"visibility"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := callerID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		var req request
		if err := decodeJSON(r, &req); err != nil || req.Title == "" || req.Content == "" {
			writeError(w, http.StatusBadRequest, "title and content are required")
			return
		}
		if req.Visibility == "" {
			req.Visibility = blogs.VisibilityPublic
		}
		if req.Visibility != blogs.VisibilityPublic && req.Visibility != blogs.VisibilityPrivate {
			writeError(w, http.StatusBadRequest, "Invalid visibility")
			return
		}

		created, err := s.repos.Blogs.Create(r.Context(), &blogs.Blog{
			Title:      req.Title,
			Content:    req.Content,
			AuthorID:   caller,
			Visibility: req.Visibility,
		})
		if err != nil {
			log.Error().Err(err).Msg("create blog failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

// GetBlogHandler serves a single blog. Hidden blogs are invisible to
// everyone but moderation; private blogs only resolve for their author.
func (s *Server) GetBlogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid blog id")
			return
		}

		blog, err := s.repos.Blogs.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, blogs.NotFoundErr) {
				writeError(w, http.StatusNotFound, "Blog not found")
				return
			}
			log.Error().Err(err).Msg("get blog failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		if blog.IsHidden || blog.Visibility == blogs.VisibilityPrivate {
			if !s.canViewRestricted(r, blog.AuthorID) {
				writeError(w, http.StatusNotFound, "Blog not found")
				return
			}
		}

		writeJSON(w, http.StatusOK, blog)
	}
}

func (s *Server) UpdateBlogHandler() http.HandlerFunc {
	type request struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		Visibility string `json:"visibility"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid blog id")
			return
		}

		blog, err := s.repos.Blogs.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, blogs.NotFoundErr) {
				writeError(w, http.StatusNotFound, "Blog not found")
				return
			}
			log.Error().Err(err).Msg("get blog failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		caller, ok := callerID(r)
		if !ok || caller != blog.AuthorID {
			writeError(w, http.StatusForbidden, "Only the author can edit a blog")
			return
		}

		var req request
		if err := decodeJSON(r, &req); err != nil || req.Title == "" || req.Content == "" {
			writeError(w, http.StatusBadRequest, "title and content are required")
			return
		}
		if req.Visibility == "" {
			req.Visibility = blog.Visibility
		}
		if req.Visibility != blogs.VisibilityPublic && req.Visibility != blogs.VisibilityPrivate {
			writeError(w, http.StatusBadRequest, "Invalid visibility")
			return
		}

		if err := s.repos.Blogs.Update(r.Context(), id, req.Title, req.Content, req.Visibility); err != nil {
			log.Error().Err(err).Msg("update blog failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusOK, map[string]int64{"blog_id": id})
	}
}

func (s *Server) DeleteBlogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid blog id")
			return
		}

		blog, err := s.repos.Blogs.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, blogs.NotFoundErr) {
				writeError(w, http.StatusNotFound, "Blog not found")
				return
			}
			log.Error().Err(err).Msg("get blog failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		if !s.canViewRestricted(r, blog.AuthorID) {
			writeError(w, http.StatusForbidden, "Only the author or an admin can delete a blog")
			return
		}

		if err := s.repos.Blogs.Delete(r.Context(), id); err != nil {
			log.Error().Err(err).Msg("delete blog failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		writeJSON(w, http.StatusNoContent, nil)
	}
}

// canViewRestricted reports whether the caller is the owner or an admin.
func (s *Server) canViewRestricted(r *http.Request, ownerID int64) bool {
	claims, ok := claimsFromContext(r)
	if !ok {
		return false
	}
	if claims["user_type"] == users.TypeAdmin {
		return true
	}
	caller, ok := claimInt64(claims["user_id"])
	return ok && caller == ownerID
}
