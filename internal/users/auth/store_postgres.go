// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// UserConstraints attributes users.account violations to request fields.
var UserConstraints = dberr.Constraints{
	"uq_account_username":        FieldUsername,
	"uq_account_email":           FieldEmail,
	"uq_account_username_email":  FieldUsername,
	"ck_account_username_not_me": FieldUsername,
	"ck_account_role":            FieldRole,
}

// UserSelect is the projection every account query scans with [ScanUser].
var UserSelect = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table)

// ScanUser hydrates a [User] from a row produced by [UserSelect].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.LastLoginAt,
		&user.DateJoined,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByUsername retrieves a user by the unique username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Username, username)
}

// FindByID retrieves a user by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID, id)
}

// FindByEmail retrieves a user by the unique email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Email, email)
}

func (repository *PostgresUserRepository) findOne(context context.Context, column string, value any) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, UserSelect, column)

	user, err := ScanUser(repository.pool.QueryRow(context, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_user")
	}
	return user, nil
}

/*
Create persists a new account.

Description: The role defaults to 'user' when empty. Unique index violations
come back as a 400 on the offending field.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	return InsertUser(context, repository.pool, user)
}

// InsertUser writes user through any pgx querier and fills ID and DateJoined.
func InsertUser(context context.Context, db interface {
	QueryRow(context.Context, string, ...any) pgx.Row
}, user *User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'user'), $7)
		RETURNING %s, %s, %s`,
		account.Table,
		account.Username, account.Email, account.FirstName, account.LastName, account.Bio, account.Role, account.IsSuperuser,
		account.ID, account.Role, account.DateJoined,
	)

	err := db.QueryRow(context, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		string(user.Role),
		user.IsSuperuser,
	).Scan(&user.ID, &user.Role, &user.DateJoined)

	return dberr.WrapWith(err, "create_user", UserConstraints)
}

// TouchLastLogin sets lastloginat for the user.
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id int64, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, at)
	if err != nil {
		return dberr.Wrap(err, "touch_last_login")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
