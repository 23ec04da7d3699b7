package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify_ConstraintCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
		want Kind
	}{
		{"not null", "23502", KindNotNullViolation},
		{"foreign key", "23503", KindForeignKeyViolation},
		{"unique", "23505", KindUniqueViolation},
		{"check", "23514", KindCheckViolation},
		{"insufficient privilege", "42501", KindInsufficientPrivilege},
		{"unknown code", "40001", KindOther},
		{"empty code", "", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pgconn.PgError{Code: tt.code}
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestClassify_WrappedError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("insert failed: %w", pgErr)
	assert.Equal(t, KindUniqueViolation, Classify(wrapped))
}

func TestClassify_NonPostgresError(t *testing.T) {
	assert.Equal(t, KindOther, Classify(errors.New("connection refused")))
}

func TestClassify_NilError(t *testing.T) {
	assert.Equal(t, KindOther, Classify(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unique violation", KindUniqueViolation.String())
	assert.Equal(t, "other", KindOther.String())
	assert.Equal(t, "other", Kind(99).String())
}
