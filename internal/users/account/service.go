// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Service Layer

// Service orchestrates business logic for the user resource.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// # Administration

// List returns one page of accounts.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	return service.repository.List(context, filter, limit, offset)
}

// Get returns the account with the given username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.repository.FindByUsername(context, username)
}

/*
Create registers an account on behalf of an administrator.

Description: Applies the signup identity rules, the profile length limits and
the role whitelist, then rejects a username or email that is already taken.

Returns:
  - *auth.User: The stored account
  - error: 400 on validation or uniqueness failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.validate(context, user); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_created", slog.Int64("user_id", user.ID), slog.String("username", user.Username))

	return user, nil
}

// Update applies a partial change to the account with the given username.
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input)
}

// Delete removes the account with the given username.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, user.ID); err != nil {
		return err
	}

	service.logger.Info("user_deleted", slog.Int64("user_id", user.ID))
	return nil
}

// # Self Service

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, userID int64) (*auth.User, error) {
	return service.repository.FindByID(context, userID)
}

// UpdateMe applies a partial change to the caller's account. The role is never changed.
func (service *Service) UpdateMe(context context.Context, userID int64, input UpdateInput) (*auth.User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	input.Role = nil
	return service.apply(context, user, input)
}

// # Helpers

func (service *Service) apply(context context.Context, user *auth.User, input UpdateInput) (*auth.User, error) {
	updated := *user
	updated.Username = pointer.Or(input.Username, user.Username)
	updated.Email = pointer.Or(input.Email, user.Email)
	updated.FirstName = pointer.Or(input.FirstName, user.FirstName)
	updated.LastName = pointer.Or(input.LastName, user.LastName)
	updated.Bio = pointer.Or(input.Bio, user.Bio)
	if input.Role != nil {
		updated.Role = sec.UserRole(*input.Role)
	}

	if err := service.validate(context, &updated); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// validate checks field rules, then uniqueness against every other account.
func (service *Service) validate(context context.Context, user *auth.User) error {
	validator := auth.ValidateIdentity(&validate.Validator{}, user.Username, user.Email).
		MaxLen(auth.FieldFirstName, user.FirstName, constants.MaxPersonNameLength).
		MaxLen(auth.FieldLastName, user.LastName, constants.MaxPersonNameLength).
		OneOf(auth.FieldRole, string(user.Role), sec.Roles()...)

	if !validator.Failed(auth.FieldUsername) {
		owner, err := service.repository.FindByUsername(context, user.Username)
		if err != nil && !apperr.IsNotFound(err) {
			return err
		}
		validator.Custom(auth.FieldUsername, err == nil && owner.ID != user.ID, "A user with that username already exists")
	}

	if !validator.Failed(auth.FieldEmail) {
		owner, err := service.repository.FindByEmail(context, user.Email)
		if err != nil && !apperr.IsNotFound(err) {
			return err
		}
		validator.Custom(auth.FieldEmail, err == nil && owner.ID != user.ID, "A user with that email already exists")
	}

	return validator.Err()
}
