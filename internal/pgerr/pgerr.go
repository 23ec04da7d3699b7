// Package pgerr classifies PostgreSQL errors into a fixed set of domain
// kinds. The rest of the system matches on Kind and never inspects vendor
// error codes directly.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes for the constraint violations the schema can produce.
const (
	NotNullViolation      = "23502"
	ForeignKeyViolation   = "23503"
	UniqueViolation       = "23505"
	CheckViolation        = "23514"
	InsufficientPrivilege = "42501"
)

// Kind is the domain-level classification of a storage error.
type Kind int

const (
	// KindOther covers every error that is not a recognized constraint
	// violation: connectivity failures, syntax errors, unknown codes and
	// non-postgres errors.
	KindOther Kind = iota
	KindUniqueViolation
	KindForeignKeyViolation
	KindNotNullViolation
	KindCheckViolation
	KindInsufficientPrivilege
)

func (k Kind) String() string {
	switch k {
	case KindUniqueViolation:
		return "unique violation"
	case KindForeignKeyViolation:
		return "foreign key violation"
	case KindNotNullViolation:
		return "not null violation"
	case KindCheckViolation:
		return "check violation"
	case KindInsufficientPrivilege:
		return "insufficient privilege"
	default:
		return "other"
	}
}

var kindByCode = map[string]Kind{
	NotNullViolation:      KindNotNullViolation,
	ForeignKeyViolation:   KindForeignKeyViolation,
	UniqueViolation:       KindUniqueViolation,
	CheckViolation:        KindCheckViolation,
	InsufficientPrivilege: KindInsufficientPrivilege,
}

// Classify maps err to exactly one Kind. It unwraps the error chain looking
// for a *pgconn.PgError and matches its SQLSTATE code against the fixed
// table above. Errors that carry no code, including nil, yield KindOther.
func Classify(err error) Kind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindOther
	}
	if kind, ok := kindByCode[pgErr.Code]; ok {
		return kind
	}
	return KindOther
}
