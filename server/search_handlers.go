package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/eyecarehub/eyecare-server/blogs"
	"github.com/eyecarehub/eyecare-server/comments"
)

// SearchHandler runs a case-insensitive substring search across blogs and
// comments. includeAuthor=1 also matches on author names.
func (s *Server) SearchHandler() http.HandlerFunc {
	type blogResult struct {
		blogs.Blog
		AuthorName string `json:"author_name"`
	}
	type commentResult struct {
		comments.Comment
		AuthorName string `json:"author_name"`
	}
	type response struct {
		Blogs    []blogResult    `json:"blogs"`
		Comments []commentResult `json:"comments"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		includeAuthor := r.URL.Query().Get("includeAuthor") == "1"

		blogHits, err := s.repos.Blogs.Search(r.Context(), query, includeAuthor)
		if err != nil {
			log.Error().Err(err).Msg("blog search failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		commentHits, err := s.repos.Comments.Search(r.Context(), query, includeAuthor)
		if err != nil {
			log.Error().Err(err).Msg("comment search failed")
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		resp := response{
			Blogs:    make([]blogResult, 0, len(blogHits)),
			Comments: make([]commentResult, 0, len(commentHits)),
		}
		for _, hit := range blogHits {
			resp.Blogs = append(resp.Blogs, blogResult{Blog: hit.Blog, AuthorName: hit.AuthorName})
		}
		for _, hit := range commentHits {
			resp.Comments = append(resp.Comments, commentResult{Comment: hit.Comment, AuthorName: hit.AuthorName})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
