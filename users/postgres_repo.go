package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/eyecarehub/eyecare-server/internal/dbx"
)

// PostgresRepo implements Repo over dbx.DBTX (satisfied by *sql.DB or *sql.Tx).
type PostgresRepo struct {
	db dbx.DBTX
}

var _ Repo = (*PostgresRepo)(nil)

func NewPostgresRepo(db dbx.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const uniqueViolation = "23505"

const userColumns = `user_id, email, COALESCE(password_hash, ''), user_type, auth_method,
	is_banned, COALESCE(google_id, ''), COALESCE(name, ''), COALESCE(picture, ''),
	COALESCE(refresh_token, ''), COALESCE(last_login, 'epoch'::timestamptz), created_at`

func (r *PostgresRepo) Create(ctx context.Context, user *User) (*User, error) {
	query := `
		INSERT INTO users (email, password_hash, user_type, auth_method, google_id, name, picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, nullable(user.PasswordHash), user.UserType, user.AuthMethod,
		nullable(user.GoogleID), nullable(user.Name), nullable(user.Picture),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, EmailTakenErr
		}
		return nil, errors.Wrap(err, "[PostgresRepo.Create] insert user")
	}
	return user, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepo) UpdateRole(ctx context.Context, id int64, userType string) error {
	return r.exec(ctx, "[PostgresRepo.UpdateRole]",
		`UPDATE users SET user_type = $2 WHERE user_id = $1`, id, userType)
}

func (r *PostgresRepo) SetBanned(ctx context.Context, id int64, banned bool) error {
	return r.exec(ctx, "[PostgresRepo.SetBanned]",
		`UPDATE users SET is_banned = $2 WHERE user_id = $1`, id, banned)
}

func (r *PostgresRepo) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.exec(ctx, "[PostgresRepo.SetLastLogin]",
		`UPDATE users SET last_login = $2 WHERE user_id = $1`, id, at)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "[PostgresRepo.Delete]",
		`DELETE FROM users WHERE user_id = $1`, id)
}

func (r *PostgresRepo) GetRefreshToken(ctx context.Context, id int64) (string, error) {
	query := `SELECT COALESCE(refresh_token, '') FROM users WHERE user_id = $1`
	var refreshToken string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", NotFoundErr
		}
		return "", errors.Wrap(err, "[PostgresRepo.GetRefreshToken] query")
	}
	return refreshToken, nil
}

func (r *PostgresRepo) SetRefreshToken(ctx context.Context, id int64, refreshToken string) error {
	return r.exec(ctx, "[PostgresRepo.SetRefreshToken]",
		`UPDATE users SET refresh_token = $2 WHERE user_id = $1`, id, nullable(refreshToken))
}

// exec runs a single-row mutation and maps zero affected rows to NotFoundErr.
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

func (r *PostgresRepo) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var lastLogin time.Time
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.UserType, &user.AuthMethod,
		&user.IsBanned, &user.GoogleID, &user.Name, &user.Picture,
		&user.RefreshToken, &lastLogin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFoundErr
		}
		return nil, errors.Wrap(err, "[PostgresRepo.scanUser] scan")
	}
	if lastLogin.Unix() > 0 {
		user.LastLogin = lastLogin
	}
	return user, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
