// Package repository provides data access layers for the application's
// domain models. Each repository is an interface with a GORM-backed
// implementation; handlers depend on the interfaces so tests can swap in
// mocks.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Postgres reports these with SQLSTATE 23505; the sqlite driver used in
// tests only exposes a message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
