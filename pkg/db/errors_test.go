package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	pqErr := &pq.Error{Code: "23505", Constraint: "categories_name_key"}

	if !IsUniqueViolation(pgxErr) {
		t.Fatal("pgx unique violation should match without a constraint name")
	}
	if !IsUniqueViolation(fmt.Errorf("create: %w", pgxErr), "users_email_key") {
		t.Fatal("wrapped pgx error should match its constraint")
	}
	if IsUniqueViolation(pgxErr, "other_constraint") {
		t.Fatal("pgx error must not match a different constraint")
	}

	if !IsUniqueViolation(pqErr) {
		t.Fatal("pq unique violation should match without a constraint name")
	}
	if !IsUniqueViolation(pqErr, "categories_name_key") {
		t.Fatal("pq error should match its constraint")
	}

	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")) {
		t.Fatal("sqlite message should match")
	}
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "users_email_key"`)) {
		t.Fatal("postgres message should match")
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Fatal("unrelated error must not match")
	}
	if IsUniqueViolation(nil) {
		t.Fatal("nil error must not match")
	}
}
