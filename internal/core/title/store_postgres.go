// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// titleConstraints maps constraint violations onto payload fields.
var titleConstraints = dberr.Constraints{
	"ck_title_year":        FieldYear,
	"fk_title_category":    FieldCategory,
	"fk_genre_title_genre": FieldGenre,
	"uq_genre_title":       FieldGenre,
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the title store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Read Model

// selectTitles builds the hydrated projection shared by List and FindByID.
//
// Rating and genres come from correlated subqueries so the outer query needs no GROUP BY.
func selectTitles() squirrel.SelectBuilder {
	t, c, g, gt, r := schema.CoreTitle, schema.CoreCategory, schema.CoreGenre, schema.CoreGenreTitle, schema.SocialReview

	rating := fmt.Sprintf(
		`COALESCE((SELECT ROUND(AVG(r.%s), 1) FROM %s r WHERE r.%s = t.%s), 0)::float8 AS rating`,
		r.Score, r.Table, r.TitleID, t.ID,
	)

	genres := fmt.Sprintf(`COALESCE((
			SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s gt
			JOIN %s g ON g.%s = gt.%s
			WHERE gt.%s = t.%s
		), '[]') AS genres`,
		g.Name, g.Slug, g.Name,
		gt.Table,
		g.Table, g.ID, gt.GenreID,
		gt.TitleID, t.ID,
	)

	return psql.Select(
		"t."+t.ID, "t."+t.Name, "t."+t.Year, "t."+t.Description,
		rating,
		"c."+c.ID, "c."+c.Name, "c."+c.Slug,
		genres,
		"COUNT(*) OVER() AS total_count",
	).
		From(t.Table + " t").
		LeftJoin(fmt.Sprintf("%s c ON c.%s = t.%s", c.Table, c.ID, t.CategoryID))
}

// applyFilter appends the optional WHERE clauses of a list request.
func applyFilter(builder squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	t, c, g, gt := schema.CoreTitle, schema.CoreCategory, schema.CoreGenre, schema.CoreGenreTitle

	if filter.Name != "" {
		builder = builder.Where(squirrel.ILike{"t." + t.Name: "%" + filter.Name + "%"})
	}

	if filter.Year != 0 {
		builder = builder.Where(squirrel.Eq{"t." + t.Year: filter.Year})
	}

	if filter.Category != "" {
		builder = builder.Where(squirrel.Eq{"c." + c.Slug: filter.Category})
	}

	if filter.Genre != "" {
		builder = builder.Where(squirrel.Expr(fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s fgt JOIN %s fg ON fg.%s = fgt.%s WHERE fgt.%s = t.%s AND fg.%s = ?)`,
			gt.Table, g.Table, g.ID, gt.GenreID, gt.TitleID, t.ID, g.Slug,
		), filter.Genre))
	}

	return builder
}

func scanTitle(row pgx.Row) (*Title, int, error) {
	var (
		title        Title
		categoryID   *int64
		categoryName *string
		categorySlug *string
		genresJSON   []byte
		total        int
	)

	if err := row.Scan(
		&title.ID, &title.Name, &title.Year, &title.Description,
		&title.Rating,
		&categoryID, &categoryName, &categorySlug,
		&genresJSON,
		&total,
	); err != nil {
		return nil, 0, err
	}

	if categorySlug != nil {
		title.Category = &taxonomy.Term{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	title.Genre = []*taxonomy.Term{}
	if err := json.Unmarshal(genresJSON, &title.Genre); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to decode title genres: %w", err)
	}

	return &title, total, nil
}

// List returns a filtered page of titles ordered by name.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	t := schema.CoreTitle

	query, args, err := applyFilter(selectTitles(), filter).
		OrderBy("t."+t.Name, "t."+t.ID).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := []*Title{}
	total := 0
	for rows.Next() {
		title, count, err := scanTitle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, title)
		total = count
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}

	return titles, total, nil
}

// FindByID retrieves one hydrated title.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query, args, err := selectTitles().Where(squirrel.Eq{"t." + schema.CoreTitle.ID: id}).ToSql()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	title, _, err := scanTitle(repository.pool.QueryRow(context, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Title")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_title")
	}
	return title, nil
}

// # Write Model

// Create inserts a title and its genre links in one transaction.
func (repository *PostgresRepository) Create(context context.Context, record *Record) (int64, error) {
	t := schema.CoreTitle

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return 0, dberr.Wrap(err, "begin_create_title")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.ID)

	var id int64
	err = transaction.QueryRow(context, query, record.Name, record.Year, record.Description, record.CategoryID).Scan(&id)
	if err != nil {
		return 0, dberr.WrapWith(err, "create_title", titleConstraints)
	}

	if err := replaceGenres(context, transaction, id, record.GenreIDs); err != nil {
		return 0, err
	}

	if err := transaction.Commit(context); err != nil {
		return 0, dberr.Wrap(err, "commit_create_title")
	}

	return id, nil
}

// Update overwrites a title and optionally its genre links in one transaction.
func (repository *PostgresRepository) Update(context context.Context, id int64, record *Record) error {
	t := schema.CoreTitle

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_update_title")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4
		WHERE %s = $5
	`, t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.ID)

	tag, err := transaction.Exec(context, query, record.Name, record.Year, record.Description, record.CategoryID, id)
	if err != nil {
		return dberr.WrapWith(err, "update_title", titleConstraints)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}

	if record.GenreIDs != nil {
		if err := replaceGenres(context, transaction, id, record.GenreIDs); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_update_title")
	}

	return nil
}

// replaceGenres rewrites the genre links of a title inside transaction.
func replaceGenres(context context.Context, transaction pgx.Tx, titleID int64, genreIDs []int64) error {
	gt := schema.CoreGenreTitle

	unlink := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", gt.Table, gt.TitleID)
	if _, err := transaction.Exec(context, unlink, titleID); err != nil {
		return dberr.Wrap(err, "clear_title_genres")
	}

	if len(genreIDs) == 0 {
		return nil
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING", gt.Table, gt.GenreID, gt.TitleID)
	batch := &pgx.Batch{}
	for _, genreID := range genreIDs {
		batch.Queue(insert, genreID, titleID)
	}

	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return dberr.WrapWith(err, "link_title_genres", titleConstraints)
	}

	return nil
}

// Delete removes a title.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	t := schema.CoreTitle
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.Table, t.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}
	return nil
}
