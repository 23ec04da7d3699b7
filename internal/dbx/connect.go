package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userstore/internal/common"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolSettings describes how the shared connection pool is sized. Zero
// values leave the database/sql defaults in place.
type PoolSettings struct {
	DSN             string
	MinConns        int
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// Connect opens a PostgreSQL pool through the pgx stdlib driver and
// verifies connectivity with a ping. Failures are reported as
// common.ErrConnection.
func Connect(ctx context.Context, s PoolSettings) (*sql.DB, error) {
	db, err := sql.Open("pgx", s.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	if s.MaxConns > 0 {
		db.SetMaxOpenConns(s.MaxConns)
	}
	if s.MinConns > 0 {
		db.SetMaxIdleConns(s.MinConns)
	}
	if s.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(s.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrConnection, err)
	}

	return db, nil
}
