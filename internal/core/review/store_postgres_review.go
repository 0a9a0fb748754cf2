// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// reviewConstraints maps constraint violations onto payload fields.
var reviewConstraints = dberr.Constraints{
	"uq_review_author_title": dberr.NonFieldErrors,
	"ck_review_score":        FieldScore,
	"fk_review_title":        dberr.NonFieldErrors,
	"fk_review_author":       dberr.NonFieldErrors,
}

// PostgresReviewRepository implements [ReviewRepository] using pgx.
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReviewRepository creates a new Postgres implementation of the review store.
func NewPostgresReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

// reviewSelect projects a review with its author's username; callers append the WHERE clause.
var reviewSelect = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, r.%s, a.%s, r.%s, r.%s
	FROM %s r
	JOIN %s a ON a.%s = r.%s
`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID, schema.SocialReview.Text,
	schema.UserAccount.Username, schema.SocialReview.Score, schema.SocialReview.PubDate,
	schema.SocialReview.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
)

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(&review.ID, &review.TitleID, &review.AuthorID, &review.Text, &review.Author, &review.Score, &review.PubDate)
	return review, err
}

// TitleExists checks that the parent title is present.
func (repository *PostgresReviewRepository) TitleExists(context context.Context, titleID int64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return dberr.Wrap(err, "check_title")
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// List returns a page of reviews of a title, newest first.
func (repository *PostgresReviewRepository) List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, schema.SocialReview.Table, schema.SocialReview.TitleID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	query := reviewSelect + fmt.Sprintf(`
		WHERE r.%s = $1
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3
	`, schema.SocialReview.TitleID, schema.SocialReview.PubDate, schema.SocialReview.ID)

	rows, err := repository.pool.Query(context, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := []*Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}

	return reviews, total, dberr.Wrap(rows.Err(), "list_reviews")
}

// FindByID retrieves a review scoped to its title.
func (repository *PostgresReviewRepository) FindByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := reviewSelect + fmt.Sprintf(`WHERE r.%s = $1 AND r.%s = $2`, schema.SocialReview.ID, schema.SocialReview.TitleID)
	return repository.findOne(context, query, reviewID, titleID)
}

// FindByAuthor retrieves the review an author wrote for a title.
func (repository *PostgresReviewRepository) FindByAuthor(context context.Context, titleID, authorID int64) (*Review, error) {
	query := reviewSelect + fmt.Sprintf(`WHERE r.%s = $1 AND r.%s = $2`, schema.SocialReview.TitleID, schema.SocialReview.AuthorID)
	return repository.findOne(context, query, titleID, authorID)
}

func (repository *PostgresReviewRepository) findOne(context context.Context, query string, args ...any) (*Review, error) {
	review, err := scanReview(repository.pool.QueryRow(context, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Review")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_review")
	}
	return review, nil
}

// Create inserts a review.
func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s
	`, r.Table, r.TitleID, r.AuthorID, r.Text, r.Score, r.ID, r.PubDate)

	err := repository.pool.QueryRow(context, query, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.PubDate)
	return dberr.WrapWith(err, "create_review", reviewConstraints)
}

// Update writes text and score.
func (repository *PostgresReviewRepository) Update(context context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`, r.Table, r.Text, r.Score, r.ID)

	tag, err := repository.pool.Exec(context, query, review.Text, review.Score, review.ID)
	if err != nil {
		return dberr.WrapWith(err, "update_review", reviewConstraints)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// Delete removes a review.
func (repository *PostgresReviewRepository) Delete(context context.Context, reviewID int64) error {
	r := schema.SocialReview
	tag, err := repository.pool.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.Table, r.ID), reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}
