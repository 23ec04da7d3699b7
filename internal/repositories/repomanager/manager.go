// Package repomanager wires the connection pool, schema migrations and the
// individual repositories together behind one handle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/userstore/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Close() error
}
