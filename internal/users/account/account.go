// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account exposes the user resource.

Administrators list, create, edit and delete accounts by username. Every
authenticated caller may read and edit their own profile through /users/me,
except for the role, which only an administrator can change.

# Architecture

  - Entities: the account entity is [auth.User]; this package only adds inputs and filters.
  - Repository: PostgreSQL over users.account, with squirrel-built list filters.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # Inputs & Filters

// Filter narrows the user list.
type Filter struct {
	// Search matches usernames case-insensitively.
	Search string
}

// CreateInput holds an administrator-supplied account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {

	/*
		List returns one page of accounts ordered by username, plus the total count.

		Parameters:
		  - filter: Filter
		  - limit, offset: int

		Returns:
		  - []*auth.User: The page
		  - int: Total matching rows
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error)

	/*
		FindByID retrieves an account by its primary key.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		FindByUsername retrieves an account by its username.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		FindByEmail retrieves an account by its email.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*auth.User, error)

	/*
		Create persists a new account.

		Returns:
		  - error: 400 on unique violations, storage failures otherwise
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update writes every mutable profile field of user.

		Returns:
		  - error: apperr.NotFound, 400 on unique violations, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes the account; reviews and comments cascade.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id int64) error
}
