// Package users implements the account repository: transactional CRUD over
// the users table plus credential verification against stored digests.
package users

import (
	"context"

	"github.com/dmitrijs2005/userstore/internal/models"
	"github.com/google/uuid"
)

// Repository is the account-persistence contract. Every operation is atomic:
// the caller sees either the full effect or no effect.
//
// Failures are reported through the sentinel errors in internal/common;
// driver-level errors never escape.
type Repository interface {
	// GetUser fetches a single account by id.
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	// ListUsers fetches all accounts. An empty table yields an empty
	// slice, not an error.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateUser hashes the password, inserts a new row with a fresh id
	// and returns the committed record. A duplicate email reports
	// common.ErrAlreadyExists.
	CreateUser(ctx context.Context, email, password string) (*models.User, error)

	// UpdateUser applies a partial update and returns the resulting row.
	// A password change requires the old password to verify against the
	// stored hash. An update with no fields set returns the current row
	// unchanged.
	UpdateUser(ctx context.Context, id uuid.UUID, update models.UpdateUser) (*models.User, error)

	// DeleteUser removes an account and returns the deleted row.
	DeleteUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	// VerifyUserPassword checks a password against the account with the
	// given email. It never mutates anything.
	VerifyUserPassword(ctx context.Context, email, password string) error
}
