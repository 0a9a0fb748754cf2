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

var commentConstraints = dberr.Constraints{
	"fk_comment_review": dberr.NonFieldErrors,
	"fk_comment_author": dberr.NonFieldErrors,
}

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCommentRepository creates a new Postgres implementation of the comment store.
func NewPostgresCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

var commentSelect = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, c.%s, a.%s, c.%s
	FROM %s c
	JOIN %s a ON a.%s = c.%s
`,
	schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID, schema.SocialComment.Text,
	schema.UserAccount.Username, schema.SocialComment.PubDate,
	schema.SocialComment.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.AuthorID,
)

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Text, &comment.Author, &comment.PubDate)
	return comment, err
}

// List returns a page of comments under a review, newest first.
func (repository *PostgresCommentRepository) List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	c := schema.SocialComment

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, c.Table, c.ReviewID)
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	query := commentSelect + fmt.Sprintf(`
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC
		LIMIT $2 OFFSET $3
	`, c.ReviewID, c.PubDate, c.ID)

	rows, err := repository.pool.Query(context, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}

	return comments, total, dberr.Wrap(rows.Err(), "list_comments")
}

// FindByID retrieves a comment scoped to its review.
func (repository *PostgresCommentRepository) FindByID(context context.Context, reviewID, commentID int64) (*Comment, error) {
	c := schema.SocialComment
	query := commentSelect + fmt.Sprintf(`WHERE c.%s = $1 AND c.%s = $2`, c.ID, c.ReviewID)

	comment, err := scanComment(repository.pool.QueryRow(context, query, commentID, reviewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Comment")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_comment")
	}
	return comment, nil
}

// Create inserts a comment.
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`, c.Table, c.ReviewID, c.AuthorID, c.Text, c.ID, c.PubDate)

	err := repository.pool.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate)
	return dberr.WrapWith(err, "create_comment", commentConstraints)
}

// Update writes the text of a comment.
func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	c := schema.SocialComment
	tag, err := repository.pool.Exec(context, fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, c.Table, c.Text, c.ID), comment.Text, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

// Delete removes a comment.
func (repository *PostgresCommentRepository) Delete(context context.Context, commentID int64) error {
	c := schema.SocialComment
	tag, err := repository.pool.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, c.Table, c.ID), commentID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}
