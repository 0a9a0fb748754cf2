// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// # Service Layer

// Service implements the rules for one vocabulary.
type Service struct {
	kind       Kind
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a [Service] for kind.
func NewService(kind Kind, repository Repository, logger *slog.Logger) *Service {
	return &Service{kind: kind, repository: repository, logger: logger}
}

// Kind reports which vocabulary the service manages.
func (service *Service) Kind() Kind {
	return service.kind
}

// List returns one page of terms.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Term, int, error) {
	return service.repository.List(context, filter, limit, offset)
}

// CreateInput is the payload for a new term.
type CreateInput struct {
	Name string
	Slug string
}

/*
Create validates and persists a term.

Description: An omitted slug is derived from the name. A slug already used by
another term of the same kind is rejected on the slug field.

Returns:
  - *Term: The stored term
  - error: 400 with field details
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Term, error) {
	term := &Term{
		Name: strings.TrimSpace(input.Name),
		Slug: strings.TrimSpace(input.Slug),
	}
	if term.Slug == "" {
		term.Slug = slug.FromMax(term.Name, constants.MaxSlugLength)
	}

	validator := (&validate.Validator{}).
		Required(FieldName, term.Name).
		MaxLen(FieldName, term.Name, constants.MaxTextLength).
		MaxLen(FieldSlug, term.Slug, constants.MaxSlugLength).
		Slug(FieldSlug, term.Slug)

	if !validator.Failed(FieldSlug) {
		_, err := service.repository.FindBySlug(context, term.Slug)
		if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		validator.Custom(FieldSlug, err == nil, fmt.Sprintf("%s with this slug already exists", service.kind))
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, term); err != nil {
		return nil, err
	}

	service.logger.Info(string(service.kind)+"_created", slog.String("slug", term.Slug))
	return term, nil
}

// Delete removes the term with the given slug.
func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repository.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.Info(string(service.kind)+"_deleted", slog.String("slug", slug))
	return nil
}
