// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresRepository implements [Repository] for one [Kind].
type PostgresRepository struct {
	pool        *pgxpool.Pool
	kind        Kind
	constraints dberr.Constraints
}

// NewPostgresRepository creates a repository over core.category or core.genre.
func NewPostgresRepository(pool *pgxpool.Pool, kind Kind) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		kind: kind,
		constraints: dberr.Constraints{
			fmt.Sprintf("uq_%s_slug", kind): FieldSlug,
		},
	}
}

// List returns a page of terms ordered by name.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error) {
	table := repository.kind.table()

	where := squirrel.And{}
	if filter.Search != "" {
		where = append(where, squirrel.ILike{table.Name: "%" + filter.Search + "%"})
	}

	countQuery, countArgs, err := psql.Select("count(*)").From(table.Table).Where(where).ToSql()
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_"+string(repository.kind))
	}

	query, args, err := psql.Select(table.Columns()...).
		From(table.Table).
		Where(where).
		OrderBy(table.Name, table.ID).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	terms, err := repository.query(context, query, args...)
	return terms, total, err
}

// FindBySlug retrieves a single term.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Term, error) {
	table := repository.kind.table()
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.Slug, table.Table, table.Slug)

	term := &Term{}
	err := repository.pool.QueryRow(context, query, slug).Scan(&term.ID, &term.Name, &term.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(repository.kind.Resource())
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_"+string(repository.kind))
	}
	return term, nil
}

// FindBySlugs retrieves the terms whose slug is in slugs.
func (repository *PostgresRepository) FindBySlugs(context context.Context, slugs []string) ([]*Term, error) {
	if len(slugs) == 0 {
		return []*Term{}, nil
	}

	table := repository.kind.table()
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = ANY($1) ORDER BY %s`,
		table.ID, table.Name, table.Slug, table.Table, table.Slug, table.Name)

	return repository.query(context, query, slugs)
}

// Create inserts a term.
func (repository *PostgresRepository) Create(context context.Context, term *Term) error {
	table := repository.kind.table()
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		table.Table, table.Name, table.Slug, table.ID)

	err := repository.pool.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID)
	return dberr.WrapWith(err, "create_"+string(repository.kind), repository.constraints)
}

// DeleteBySlug removes a term.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, slug string) error {
	table := repository.kind.table()
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.pool.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_"+string(repository.kind))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Resource())
	}
	return nil
}

func (repository *PostgresRepository) query(context context.Context, query string, args ...any) ([]*Term, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_"+string(repository.kind))
	}
	defer rows.Close()

	terms := []*Term{}
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan_"+string(repository.kind))
		}
		terms = append(terms, term)
	}

	return terms, dberr.Wrap(rows.Err(), "list_"+string(repository.kind))
}
