// Package store wires the Postgres connection, the goose migrations, and
// the repository constructors together.
package store

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/eyecarehub/eyecare-server/adminactions"
	"github.com/eyecarehub/eyecare-server/blogs"
	"github.com/eyecarehub/eyecare-server/comments"
	"github.com/eyecarehub/eyecare-server/loginhistory"
	"github.com/eyecarehub/eyecare-server/migrations"
	"github.com/eyecarehub/eyecare-server/users"
)

type Store struct {
	db *sql.DB

	Users        users.Repo
	Blogs        blogs.Repo
	Comments     comments.Repo
	AdminActions adminactions.Repo
	Logins       loginhistory.Repo
}

// Open connects to Postgres via the pgx stdlib driver and constructs the
// repositories over the shared connection pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "[store.Open] sql.Open")
	}

	return &Store{
		db:           db,
		Users:        users.NewPostgresRepo(db),
		Blogs:        blogs.NewPostgresRepo(db),
		Comments:     comments.NewPostgresRepo(db),
		AdminActions: adminactions.NewPostgresRepo(db),
		Logins:       loginhistory.NewPostgresRepo(db),
	}, nil
}

// RunMigrations applies the embedded goose migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "[Store.RunMigrations] SetDialect")
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return errors.Wrap(err, "[Store.RunMigrations] UpContext")
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
