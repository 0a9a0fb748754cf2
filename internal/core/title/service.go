// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// maxStoredYear is the upper bound of the SMALLINT year column.
const maxStoredYear = math.MaxInt16

// # Service Layer

// Service orchestrates title validation and persistence.
type Service struct {
	repository Repository
	categories taxonomy.Repository
	genres     taxonomy.Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a [Service]. Category and genre slugs are resolved through the given repositories.
func NewService(repository Repository, categories, genres taxonomy.Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		categories: categories,
		genres:     genres,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the source of the current year.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// WriteInput is a create or partial-update payload. Nil fields are omitted.
type WriteInput struct {
	Name        *string
	Year        *int
	Description *string

	// CategorySet reports whether the payload mentioned category at all;
	// Category nil with CategorySet clears the link.
	CategorySet bool
	Category    *string

	// Genre nil leaves the links untouched.
	Genre []string
}

// # Queries

// List returns one page of titles.
//
// A year outside the range the year column can store matches nothing.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	if filter.Year != 0 && (filter.Year < 1 || filter.Year > maxStoredYear) {
		return []*Title{}, 0, nil
	}
	return service.repository.List(context, filter, limit, offset)
}

// Get returns one title.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repository.FindByID(context, id)
}

// # Commands

/*
Create validates and stores a new title.

Description: name, year and at least one genre are mandatory. The category is
optional. Slugs that do not resolve are reported on their field.

Returns:
  - *Title: The stored title, hydrated
  - error: 400 with field details or storage failures
*/
func (service *Service) Create(context context.Context, input WriteInput) (*Title, error) {
	record := &Record{
		Name:        pointer.Trimmed(input.Name),
		Year:        pointer.Or(input.Year, 0),
		Description: pointer.Or(input.Description, ""),
	}

	validator := (&validate.Validator{}).
		Custom(FieldYear, input.Year == nil, "This field is required").
		Custom(FieldGenre, len(input.Genre) == 0, "At least one genre is required")

	if err := service.resolve(context, validator, record, input); err != nil {
		return nil, err
	}

	id, err := service.repository.Create(context, record)
	if err != nil {
		return nil, err
	}

	service.logger.Info("title_created", slog.Int64("title_id", id), slog.String("name", record.Name))
	return service.repository.FindByID(context, id)
}

/*
Update applies a partial change to a title.

Returns:
  - *Title: The updated title, hydrated
  - error: apperr.NotFound, 400 with field details or storage failures
*/
func (service *Service) Update(context context.Context, id int64, input WriteInput) (*Title, error) {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Name:        pointer.TrimmedOr(input.Name, current.Name),
		Year:        pointer.Or(input.Year, current.Year),
		Description: pointer.Or(input.Description, current.Description),
	}
	if current.Category != nil {
		record.CategoryID = pointer.To(current.Category.ID)
	}

	validator := (&validate.Validator{}).
		Custom(FieldGenre, input.Genre != nil && len(input.Genre) == 0, "At least one genre is required")

	if err := service.resolve(context, validator, record, input); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, id, record); err != nil {
		return nil, err
	}

	return service.repository.FindByID(context, id)
}

// Delete removes a title.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Helpers

// resolve applies the shared field rules and turns slugs into keys on record.
func (service *Service) resolve(context context.Context, validator *validate.Validator, record *Record, input WriteInput) error {
	currentYear := service.now().Year()

	validator.
		Required(FieldName, record.Name).
		MaxLen(FieldName, record.Name, constants.MaxTextLength)

	if !validator.Failed(FieldYear) {
		validator.Custom(FieldYear, record.Year < 1 || record.Year > currentYear,
			fmt.Sprintf("Year must be between 1 and %d", currentYear))
	}

	// ── 1. Category ──
	if input.CategorySet {
		record.CategoryID = nil
		if input.Category != nil {
			category, err := service.categories.FindBySlug(context, *input.Category)
			switch {
			case apperr.IsNotFound(err):
				validator.Custom(FieldCategory, true, fmt.Sprintf("Object with slug=%s does not exist", *input.Category))
			case err != nil:
				return err
			default:
				record.CategoryID = pointer.To(category.ID)
			}
		}
	}

	// ── 2. Genres ──
	if len(input.Genre) > 0 {
		genres, err := service.genres.FindBySlugs(context, input.Genre)
		if err != nil {
			return err
		}

		known := make(map[string]int64, len(genres))
		for _, genre := range genres {
			known[genre.Slug] = genre.ID
		}

		record.GenreIDs = make([]int64, 0, len(input.Genre))
		for _, slug := range input.Genre {
			id, ok := known[slug]
			if !ok {
				validator.Custom(FieldGenre, true, fmt.Sprintf("Object with slug=%s does not exist", slug))
				continue
			}
			record.GenreIDs = append(record.GenreIDs, id)
		}
	}

	return validator.Err()
}
