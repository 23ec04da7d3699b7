package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userstore/internal/common"
	"github.com/dmitrijs2005/userstore/internal/dbx"
	"github.com/dmitrijs2005/userstore/internal/models"
	"github.com/dmitrijs2005/userstore/internal/passwd"
	"github.com/dmitrijs2005/userstore/internal/pgerr"
	"github.com/google/uuid"
)

const userColumns = `id, email, hash, is_admin, created_at, updated_at`

type PostgresRepository struct {
	db     *sql.DB
	hasher *passwd.Hasher
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB, hasher *passwd.Hasher) *PostgresRepository {
	return &PostgresRepository{db: db, hasher: hasher}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Hash, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// domainSentinels are the errors an operation callback may legitimately
// return. Anything else coming out of dbx.WithTx is a begin/commit failure.
var domainSentinels = []error{
	common.ErrRead,
	common.ErrWrite,
	common.ErrNotFound,
	common.ErrAlreadyExists,
	common.ErrCannotDeleteReferenced,
	common.ErrInvalidArgument,
	common.ErrCredentialFailure,
	common.ErrTaskDispatch,
}

// wrapTxErr passes domain and context errors through untouched and wraps
// everything else (begin/commit failures) as common.ErrTransaction.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range domainSentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrTransaction, err)
}

func (r *PostgresRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {

	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	var user *models.User
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := scanUser(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: user %s", common.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", common.ErrRead, err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	return user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]*models.User, error) {

	query :=
		`SELECT ` + userColumns + ` FROM users
		 ORDER BY created_at, id
		 `

	users := []*models.User{}
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrRead, err)
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrRead, err)
			}
			users = append(users, u)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %v", common.ErrRead, err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	return users, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: empty email", common.ErrInvalidArgument)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", common.ErrInvalidArgument)
	}

	// Hash before touching the database: a hashing failure must abort
	// before any row is written.
	hash, err := r.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (id, email, hash)
		 VALUES ($1, $2, $3)
		 RETURNING ` + userColumns + `
		 `

	id := uuid.New()

	var user *models.User
	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := scanUser(tx.QueryRowContext(ctx, query, id, email, hash))
		if err != nil {
			if pgerr.Classify(err) == pgerr.KindUniqueViolation {
				return fmt.Errorf("%w: %s", common.ErrAlreadyExists, email)
			}
			return fmt.Errorf("%w: %v", common.ErrWrite, err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, id uuid.UUID, update models.UpdateUser) (*models.User, error) {

	selectQuery :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 FOR UPDATE
		 `

	var user *models.User
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// Lock the row so the stored hash cannot change between the
		// old-password check and the write.
		current, err := scanUser(tx.QueryRowContext(ctx, selectQuery, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: user %s", common.ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", common.ErrRead, err)
		}

		var assignments []string
		var args []any

		if update.Email != nil {
			args = append(args, *update.Email)
			assignments = append(assignments, fmt.Sprintf("email = $%d", len(args)))
		}

		if update.Password != nil {
			if err := r.hasher.Verify(ctx, update.Password.OldPassword, current.Hash); err != nil {
				return err
			}
			newHash, err := r.hasher.Hash(ctx, update.Password.NewPassword)
			if err != nil {
				return err
			}
			args = append(args, newHash)
			assignments = append(assignments, fmt.Sprintf("hash = $%d", len(args)))
		}

		// Nothing to change: skip the UPDATE entirely and return the
		// current row.
		if len(assignments) == 0 {
			user = current
			return nil
		}

		args = append(args, id)
		updateQuery := fmt.Sprintf(
			`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(assignments, ", "), len(args), userColumns,
		)

		u, err := scanUser(tx.QueryRowContext(ctx, updateQuery, args...))
		if err != nil {
			if pgerr.Classify(err) == pgerr.KindUniqueViolation {
				email := current.Email
				if update.Email != nil {
					email = *update.Email
				}
				return fmt.Errorf("%w: %s", common.ErrAlreadyExists, email)
			}
			return fmt.Errorf("%w: %v", common.ErrWrite, err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	return user, nil
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id uuid.UUID) (*models.User, error) {

	query :=
		`DELETE FROM users
		 WHERE id = $1
		 RETURNING ` + userColumns + `
		 `

	var user *models.User
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := scanUser(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: user %s", common.ErrNotFound, id)
			}
			if pgerr.Classify(err) == pgerr.KindForeignKeyViolation {
				return fmt.Errorf("%w: %s", common.ErrCannotDeleteReferenced, id)
			}
			return fmt.Errorf("%w: %v", common.ErrWrite, err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}

	return user, nil
}

func (r *PostgresRepository) VerifyUserPassword(ctx context.Context, email, password string) error {

	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	var user *models.User
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := scanUser(tx.QueryRowContext(ctx, query, email))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: user %s", common.ErrNotFound, email)
			}
			return fmt.Errorf("%w: %v", common.ErrRead, err)
		}
		user = u
		return nil
	})
	if err != nil {
		return wrapTxErr(err)
	}

	// Verification queues for a hashing worker after the transaction is
	// done, so no connection is held while waiting.
	return r.hasher.Verify(ctx, password, user.Hash)
}
