// Package repository contains the sqlx/PostgreSQL implementation of the
// store contract. Each entity has one table with a serial integer primary
// key and a unique constraint on the caller-supplied business identifier.
// Weak references (site_id columns) carry no foreign-key cascade rules.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/nwced/clc-registry-api/internal/store"
)

// uniqueViolation is the PostgreSQL error code for duplicate key values.
const uniqueViolation = "23505"

// translate maps driver errors onto the store sentinels so callers can use
// errors.Is regardless of the backing implementation.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrDuplicateID
	}
	return fmt.Errorf("%s: %w", op, err)
}
