// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the works that users review.

A title belongs to at most one category and to any number of genres, both
referenced by slug on input and expanded to {name, slug} on output. Its rating
is the mean review score, rounded to one decimal, or 0 when nobody has
reviewed it yet.

# Architecture

  - Entities: [Title] (read model) and [Record] (write model).
  - Repository: PostgreSQL with squirrel-built filters and json_agg genres.
  - Service: validation, slug resolution via the taxonomy repositories.
*/
package title

import (
	"context"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
)

// # Domain Entities

// Title is the read model returned by every endpoint.
type Title struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      float64          `json:"rating"`
	Description string           `json:"description"`
	Genre       []*taxonomy.Term `json:"genre"`
	Category    *taxonomy.Term   `json:"category"`
}

// Record is the write model: foreign keys already resolved from slugs.
type Record struct {
	Name        string
	Year        int
	Description string
	CategoryID  *int64

	// GenreIDs replaces the genre links; nil leaves them untouched on update.
	GenreIDs []int64
}

// Field names used in payloads and validation errors.
const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)

// Filter narrows the title list. Zero values are ignored.
type Filter struct {
	Name     string
	Year     int
	Category string
	Genre    string
}

// # Repository Contracts

// Repository defines the persistence contract for titles.
type Repository interface {

	/*
		List returns one page of titles ordered by name, plus the total count.

		Parameters:
		  - filter: Filter (name contains, exact year, category slug, genre slug)
		  - limit, offset: int

		Returns:
		  - []*Title: Hydrated titles with rating, category and genres
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	/*
		FindByID retrieves one hydrated title.

		Returns:
		  - *Title: The title
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*Title, error)

	// Create inserts the title and its genre links atomically, returning the new id.
	Create(context context.Context, record *Record) (int64, error)

	// Update overwrites the scalar fields and, when GenreIDs is non-nil, the genre links.
	Update(context context.Context, id int64, record *Record) error

	// Delete removes the title; its reviews and comments cascade.
	Delete(context context.Context, id int64) error
}
