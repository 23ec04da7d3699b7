package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/userstore/internal/dbx"
	"github.com/dmitrijs2005/userstore/internal/migrations"
	"github.com/dmitrijs2005/userstore/internal/passwd"
	"github.com/dmitrijs2005/userstore/internal/repositories/users"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db    *sql.DB
	users users.Repository
}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)

// NewPostgresRepositoryManager builds repositories on top of an already
// opened pool. Migrations are not run here; call RunMigrations explicitly.
func NewPostgresRepositoryManager(db *sql.DB, hasher *passwd.Hasher) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:    db,
		users: users.NewPostgresRepository(db, hasher),
	}
}

// Open connects to PostgreSQL with the given pool settings, runs migrations
// and returns a ready manager.
func Open(ctx context.Context, settings dbx.PoolSettings, hasher *passwd.Hasher) (*PostgresRepositoryManager, error) {
	db, err := dbx.Connect(ctx, settings)
	if err != nil {
		return nil, err
	}

	m := NewPostgresRepositoryManager(db, hasher)

	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
