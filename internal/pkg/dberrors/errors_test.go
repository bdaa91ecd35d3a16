package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: ConstraintUsersUsernameKey}
	wrapped := fmt.Errorf("insert user: %w", pgErr)

	assert.True(t, IsDuplicateConstraintError(wrapped, ConstraintUsersUsernameKey))
	assert.False(t, IsDuplicateConstraintError(wrapped, ConstraintUsersEmailKey))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), ConstraintUsersUsernameKey))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: CodeForeignKeyViolation}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: CodeUniqueViolation}))
	assert.False(t, IsForeignKeyViolation(nil))
}
