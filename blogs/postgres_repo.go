package blogs

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

func (r *PostgresRepo) Create(ctx context.Context, blog *Blog) (*Blog, error) {
	query := `
		INSERT INTO blogs (title, content, author_id, visibility)
		VALUES ($1, $2, $3, $4)
		RETURNING blog_id, is_hidden, created_at
	`
	err := r.db.QueryRowContext(ctx, query, blog.Title, blog.Content, blog.AuthorID, blog.Visibility).
		Scan(&blog.ID, &blog.IsHidden, &blog.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.Create] insert blog")
	}
	return blog, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (*Blog, error) {
	query := `
		SELECT blog_id, title, content, author_id, visibility, is_hidden, created_at
		FROM blogs WHERE blog_id = $1
	`
	blog := &Blog{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&blog.ID, &blog.Title, &blog.Content, &blog.AuthorID, &blog.Visibility, &blog.IsHidden, &blog.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFoundErr
		}
		return nil, errors.Wrap(err, "[PostgresRepo.GetByID] query")
	}
	return blog, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, title, content, visibility string) error {
	return r.exec(ctx, "[PostgresRepo.Update]",
		`UPDATE blogs SET title = $2, content = $3, visibility = $4 WHERE blog_id = $1`,
		id, title, content, visibility)
}

func (r *PostgresRepo) SetHidden(ctx context.Context, id int64, hidden bool) error {
	return r.exec(ctx, "[PostgresRepo.SetHidden]",
		`UPDATE blogs SET is_hidden = $2 WHERE blog_id = $1`, id, hidden)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "[PostgresRepo.Delete]", `DELETE FROM blogs WHERE blog_id = $1`, id)
}

func (r *PostgresRepo) Search(ctx context.Context, searchQuery string, includeAuthor bool) ([]SearchHit, error) {
	pattern := "%" + searchQuery + "%"
	query := `
		SELECT b.blog_id, b.title, b.content, b.author_id, b.visibility, b.is_hidden, b.created_at,
			COALESCE(u.name, '')
		FROM blogs b
		JOIN users u ON u.user_id = b.author_id
		WHERE NOT b.is_hidden AND b.visibility = 'public'
			AND (b.title ILIKE $1 OR b.content ILIKE $1 OR ($2 AND u.name ILIKE $1))
		ORDER BY b.created_at DESC
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
			&hit.Blog.ID, &hit.Blog.Title, &hit.Blog.Content, &hit.Blog.AuthorID,
			&hit.Blog.Visibility, &hit.Blog.IsHidden, &hit.Blog.CreatedAt, &hit.AuthorName,
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
