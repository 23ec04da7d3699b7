package repomanager

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userstore/internal/dbx"
	"github.com/dmitrijs2005/userstore/internal/passwd"
	"github.com/dmitrijs2005/userstore/internal/repositories/users"
	"github.com/dmitrijs2005/userstore/internal/taskpool"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newHasher(t *testing.T) *passwd.Hasher {
	t.Helper()
	pool := taskpool.New(1, 1)
	t.Cleanup(pool.Close)
	h, err := passwd.NewHasher([]byte("mysecret"), passwd.DefaultParams(), pool)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	return h
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db, newHasher(t))
	var _ RepositoryManager = m

	if m.Conn() != db {
		t.Fatal("Conn() must return the underlying pool")
	}
	if m.Users() == nil {
		t.Fatal("Users() nil")
	}
	var _ users.Repository = m.Users()
}

func TestOpen_BadDSN(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, dbx.PoolSettings{DSN: "not a dsn"}, newHasher(t))
	if err == nil {
		t.Fatal("expected error for invalid DSN")
	}
}
