package comments

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var NotFoundErr = errors.New("comment not found")

type Comment struct {
	ID        int64     `json:"comment_id"`
	BlogID    int64     `json:"blog_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	IsHidden  bool      `json:"is_hidden"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchHit is a comment matched by a text search, with the commenter's
// display name resolved for the result listing.
type SearchHit struct {
	Comment    Comment
	AuthorName string
}

type Repo interface {
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	GetByID(ctx context.Context, id int64) (*Comment, error)
	ListByBlog(ctx context.Context, blogID int64) ([]*Comment, error)
	SetHidden(ctx context.Context, id int64, hidden bool) error
	Delete(ctx context.Context, id int64) error
	// Search matches the query against content, and against the commenter
	// name when includeAuthor is set. Hidden comments never match.
	Search(ctx context.Context, query string, includeAuthor bool) ([]SearchHit, error)
}
