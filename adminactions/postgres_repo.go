package adminactions

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

func (r *PostgresRepo) Create(ctx context.Context, action *Action) (*Action, error) {
	query := `
		INSERT INTO admin_actions (admin_id, target_user_id, target_blog_id, target_comment_id, action_type, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING action_id, action_timestamp
	`
	err := r.db.QueryRowContext(ctx, query,
		action.AdminID, action.TargetUserID, action.TargetBlogID, action.TargetCommentID,
		action.ActionType, nullable(action.Reason),
	).Scan(&action.ID, &action.Timestamp)
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.Create] insert admin_action")
	}
	return action, nil
}

func (r *PostgresRepo) ListByAdmin(ctx context.Context, adminID int64) ([]*Action, error) {
	query := `
		SELECT action_id, admin_id, target_user_id, target_blog_id, target_comment_id,
			action_type, COALESCE(reason, ''), action_timestamp
		FROM admin_actions
		WHERE admin_id = $1
		ORDER BY action_timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, adminID)
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.ListByAdmin] query")
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		action := &Action{}
		if err := rows.Scan(
			&action.ID, &action.AdminID, &action.TargetUserID, &action.TargetBlogID, &action.TargetCommentID,
			&action.ActionType, &action.Reason, &action.Timestamp,
		); err != nil {
			return nil, errors.Wrap(err, "[PostgresRepo.ListByAdmin] scan")
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.ListByAdmin] rows")
	}
	return actions, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
