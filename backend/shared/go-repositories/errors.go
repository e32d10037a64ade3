package repositories

import (
	"errors"

	"github.com/jackc/pgconn"
)

const pgUniqueViolation = "23505"

// Unique constraint names declared in schema.sql. Resolvers branch on these
// to tell a natural-key race from a code collision.
const (
	ConstraintLocationNaturalKey = "locations_natural_key"
	ConstraintLandCustomID       = "lands_custom_id_key"
	ConstraintLandNaturalKey     = "lands_natural_key"
	ConstraintBuildingCustomID   = "buildings_custom_id_key"
	ConstraintBuildingNaturalKey = "buildings_natural_key"
	ConstraintUnitCustomID       = "units_custom_id_key"
	ConstraintUnitNaturalKey     = "units_natural_key"
	ConstraintProductCustomID    = "products_custom_id_key"
)

// IsUniqueViolation checks for a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// ViolatedConstraint returns the constraint name of a unique violation, or
// "" if err is not one.
func ViolatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// UniqueViolation builds the error Postgres would return for constraint.
// Used by in-memory stores so callers exercise the same branches.
func UniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           pgUniqueViolation,
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}
