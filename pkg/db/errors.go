package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolationCode = "23505"

// IsNotFound reports whether the error is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether the error is a unique-constraint
// violation. An optional constraint name narrows the match to that
// constraint. Falls back to message sniffing for drivers that do not expose
// typed errors (sqlite in tests).
func IsUniqueViolation(err error, constraint ...string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == pgUniqueViolationCode {
		return matchesConstraint(pgxErr.ConstraintName, constraint)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolationCode {
		return matchesConstraint(pqErr.Constraint, constraint)
	}

	msg := err.Error()
	if len(constraint) > 0 && constraint[0] != "" {
		return strings.Contains(msg, constraint[0])
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func matchesConstraint(name string, constraint []string) bool {
	if len(constraint) == 0 || constraint[0] == "" {
		return true
	}
	return name == constraint[0]
}
