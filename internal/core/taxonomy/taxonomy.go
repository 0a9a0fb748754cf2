// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy manages the two flat vocabularies used to classify titles:
categories (one per title) and genres (many per title).

Both share the same shape, rules and routes, so a single implementation is
parameterised by a [Kind].

# Rules

  - name is required, at most 256 characters.
  - slug is optional on input; when omitted it is derived from the name.
  - slug is unique per kind, at most 50 characters of [-a-zA-Z0-9_].
  - Terms are created and deleted only; there is no update or detail route.
*/
package taxonomy

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
)

// # Kinds

// Kind selects which vocabulary an instance serves.
type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
)

// Resource is the human name used in error messages.
func (kind Kind) Resource() string {
	if kind == KindGenre {
		return "Genre"
	}
	return "Category"
}

func (kind Kind) table() schema.TaxonomyTable {
	if kind == KindGenre {
		return schema.CoreGenre
	}
	return schema.CoreCategory
}

// # Domain Entities

// Term is a single category or genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Field names used in payloads and validation errors.
const (
	FieldName = "name"
	FieldSlug = "slug"
)

// Filter narrows a term list.
type Filter struct {
	// Search matches names case-insensitively.
	Search string
}

// # Repository Contracts

// Repository defines the persistence contract for one vocabulary.
type Repository interface {

	/*
		List returns one page of terms ordered by name, plus the total count.
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error)

	/*
		FindBySlug retrieves one term.

		Returns:
		  - *Term: The term
		  - error: apperr.NotFound or storage failures
	*/
	FindBySlug(context context.Context, slug string) (*Term, error)

	/*
		FindBySlugs retrieves every term whose slug is listed. Unknown slugs are
		simply absent from the result.
	*/
	FindBySlugs(context context.Context, slugs []string) ([]*Term, error)

	// Create persists term and fills its ID.
	Create(context context.Context, term *Term) error

	// DeleteBySlug removes a term; titles referencing it keep a null link.
	DeleteBySlug(context context.Context, slug string) error
}
