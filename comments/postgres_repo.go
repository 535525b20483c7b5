package comments

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/eyecarehub/eyecare-server/internal/dbx"
)

type PostgresRepo struct {
	db dbx.DBTX
}

var _ Repo = (*PostgresRepo)(nil)

func NewPostgresRepo(db dbx.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	query := `
		INSERT INTO comments (blog_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING comment_id, is_hidden, created_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.BlogID, comment.UserID, comment.Content).
		Scan(&comment.ID, &comment.IsHidden, &comment.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.Create] insert comment")
	}
	return comment, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (*Comment, error) {
	query := `
		SELECT comment_id, blog_id, user_id, content, is_hidden, created_at
		FROM comments WHERE comment_id = $1
	`
	comment := &Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.BlogID, &comment.UserID, &comment.Content, &comment.IsHidden, &comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFoundErr
		}
		return nil, errors.Wrap(err, "[PostgresRepo.GetByID] query")
	}
	return comment, nil
}

func (r *PostgresRepo) ListByBlog(ctx context.Context, blogID int64) ([]*Comment, error) {
	query := `
		SELECT comment_id, blog_id, user_id, content, is_hidden, created_at
		FROM comments WHERE blog_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.ListByBlog] query")
	}
	defer rows.Close()

	var result []*Comment
	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(
			&comment.ID, &comment.BlogID, &comment.UserID, &comment.Content, &comment.IsHidden, &comment.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "[PostgresRepo.ListByBlog] scan")
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.ListByBlog] rows")
	}
	return result, nil
}

func (r *PostgresRepo) SetHidden(ctx context.Context, id int64, hidden bool) error {
	return r.exec(ctx, "[PostgresRepo.SetHidden]",
		`UPDATE comments SET is_hidden = $2 WHERE comment_id = $1`, id, hidden)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "[PostgresRepo.Delete]", `DELETE FROM comments WHERE comment_id = $1`, id)
}

func (r *PostgresRepo) Search(ctx context.Context, searchQuery string, includeAuthor bool) ([]SearchHit, error) {
	pattern := "%" + searchQuery + "%"
	query := `
		SELECT c.comment_id, c.blog_id, c.user_id, c.content, c.is_hidden, c.created_at,
			COALESCE(u.name, '')
		FROM comments c
		JOIN users u ON u.user_id = c.user_id
		WHERE NOT c.is_hidden
			AND (c.content ILIKE $1 OR ($2 AND u.name ILIKE $1))
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, pattern, includeAuthor)
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.Search] query")
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var hit SearchHit
		if err := rows.Scan(
			&hit.Comment.ID, &hit.Comment.BlogID, &hit.Comment.UserID, &hit.Comment.Content,
			&hit.Comment.IsHidden, &hit.Comment.CreatedAt, &hit.AuthorName,
		); err != nil {
			return nil, errors.Wrap(err, "[PostgresRepo.Search] scan")
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.Search] rows")
	}
	return hits, nil
}

func (r *PostgresRepo) exec(ctx context.Context, opName, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, opName+" exec")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, opName+" RowsAffected")
	}
	if affected == 0 {
		return NotFoundErr
	}
	return nil
}
