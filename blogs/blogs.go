package blogs

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

var NotFoundErr = errors.New("blog not found")

type Blog struct {
	ID         int64     `json:"blog_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   int64     `json:"author_id"`
	Visibility string    `json:"visibility"`
	IsHidden   bool      `json:"is_hidden"`
	CreatedAt  time.Time `json:"created_at"`
}

// SearchHit is a blog matched by a text search, with the author's display
// name resolved for the result listing.
type SearchHit struct {
	Blog       Blog
	AuthorName string
}

type Repo interface {
	Create(ctx context.Context, blog *Blog) (*Blog, error)
	GetByID(ctx context.Context, id int64) (*Blog, error)
	Update(ctx context.Context, id int64, title, content, visibility string) error
	SetHidden(ctx context.Context, id int64, hidden bool) error
	Delete(ctx context.Context, id int64) error

	// Search matches the query (case-insensitive substring) against title
	// and content, and against the author name when includeAuthor is set.
	// Hidden and private blogs never match.
	Search(ctx context.Context, query string, includeAuthor bool) ([]SearchHit, error)
}
