package loginhistory

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

func (r *PostgresRepo) Append(ctx context.Context, attempt *Attempt) error {
	query := `
		INSERT INTO login_history (user_id, login_timestamp, ip_address, user_agent, device, location, is_success, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING login_id
	`
	err := r.db.QueryRowContext(ctx, query,
		attempt.UserID, attempt.Timestamp, nullable(attempt.IPAddress), nullable(attempt.UserAgent),
		nullable(attempt.Device), nullable(attempt.Location), attempt.IsSuccess, nullable(attempt.FailureReason),
	).Scan(&attempt.ID)
	if err != nil {
		return errors.Wrap(err, "[PostgresRepo.Append] insert login_history")
	}
	return nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID int64) ([]*Attempt, error) {
	query := `
		SELECT login_id, user_id, login_timestamp, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
			COALESCE(device, ''), COALESCE(location, ''), is_success, COALESCE(failure_reason, '')
		FROM login_history
		WHERE user_id = $1
		ORDER BY login_timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.ListByUser] query")
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		attempt := &Attempt{}
		if err := rows.Scan(
			&attempt.ID, &attempt.UserID, &attempt.Timestamp, &attempt.IPAddress, &attempt.UserAgent,
			&attempt.Device, &attempt.Location, &attempt.IsSuccess, &attempt.FailureReason,
		); err != nil {
			return nil, errors.Wrap(err, "[PostgresRepo.ListByUser] scan")
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[PostgresRepo.ListByUser] rows")
	}
	return attempts, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
