// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the account store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func applyFilter(builder squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	if filter.Search != "" {
		builder = builder.Where(squirrel.ILike{schema.UserAccount.Username: "%" + filter.Search + "%"})
	}
	return builder
}

// List returns a page of accounts ordered by username.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	account := schema.UserAccount

	countQuery, countArgs, err := applyFilter(psql.Select("count(*)").From(account.Table), filter).ToSql()
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query, args, err := applyFilter(psql.Select(account.Columns()...).From(account.Table), filter).
		OrderBy(account.Username).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, limit)
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}

	return users, total, dberr.Wrap(rows.Err(), "list_users")
}

// FindByID retrieves an account by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	return repository.findOne(context, schema.UserAccount.ID, id)
}

// FindByUsername retrieves an account by username.
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.findOne(context, schema.UserAccount.Username, username)
}

// FindByEmail retrieves an account by email.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*auth.User, error) {
	return repository.findOne(context, schema.UserAccount.Email, email)
}

func (repository *PostgresRepository) findOne(context context.Context, column string, value any) (*auth.User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1`, auth.UserSelect, column)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_user")
	}
	return user, nil
}

// Create persists a new account.
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	return auth.InsertUser(context, repository.pool, user)
}

// Update writes the mutable profile fields.
func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		account.Table,
		account.Username, account.Email, account.FirstName, account.LastName, account.Bio, account.Role,
		account.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Bio, string(user.Role),
	)
	if err != nil {
		return dberr.WrapWith(err, "update_user", auth.UserConstraints)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// Delete removes the account.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
