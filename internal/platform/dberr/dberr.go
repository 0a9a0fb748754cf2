// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Constraint violations are client errors: a duplicate or a dangling reference is
// answered with a 400 that names the offending field, never with a 500.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// NonFieldErrors is the detail key used when a violation cannot be tied to one field.
const NonFieldErrors = "non_field_errors"

// Constraints maps a database constraint name to the API field it guards.
type Constraints map[string]string

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	return WrapWith(err, action, nil)
}

// WrapWith behaves like [Wrap] and attributes constraint violations to API fields.
func WrapWith(err error, action string, constraints Constraints) error {
	if err == nil {
		return nil
	}

	// 1. Already classified upstream
	if apperr.As(err) != nil {
		return err
	}

	// 2. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// 3. Constraint violations reported by PostgreSQL
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		field := constraints[pgErr.ConstraintName]
		if field == "" {
			field = NonFieldErrors
		}

		var mapped *apperr.AppError
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			mapped = apperr.Field(field, "Already exists")
		case pgerrcode.ForeignKeyViolation:
			mapped = apperr.Field(field, "Refers to an object that does not exist")
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
			mapped = apperr.Field(field, "Invalid value")
		}

		if mapped != nil {
			mapped.Cause = err
			return mapped
		}
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
