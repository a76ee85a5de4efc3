// Package dberrors maps PostgreSQL constraint failures onto domain errors.
package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// UniqueConstraint returns the violated constraint name when err is a unique violation
func UniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Constraints maps unique constraint names to the domain error they stand for
type Constraints map[string]error

// Translate returns the domain error for a known unique violation.
// Any other error is wrapped with op.
func (c Constraints) Translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if name, ok := UniqueConstraint(err); ok {
		if domainErr, known := c[name]; known {
			return domainErr
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
