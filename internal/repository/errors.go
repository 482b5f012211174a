package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by store operations. Callers decide the
// HTTP-level response with errors.Is.
var (
	// ErrNotFound is returned when no row matches the lookup predicate,
	// including the case of a task that exists but belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint (username or email)
	// would be violated.
	ErrConflict = errors.New("already exists")
)

// uniqueViolation is the Postgres error code for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
