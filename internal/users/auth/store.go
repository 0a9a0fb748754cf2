// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract the signup flow needs.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByID returns the account a bearer token was minted for.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account and fills its ID and DateJoined.

		Returns:
		  - error: A 400 naming username or email when a unique index rejects the row
	*/
	Create(context context.Context, user *User) error

	/*
		TouchLastLogin stamps the moment a confirmation code was redeemed.

		Parameters:
		  - id: int64
		  - at: time.Time

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	TouchLastLogin(context context.Context, id int64, at time.Time) error
}

// # Volatile Data Access

// CodeLedger remembers which confirmation codes were already exchanged.
type CodeLedger interface {

	/*
		Redeem marks the code as used for ttl.

		Returns:
		  - bool: true when this call was the first redemption
		  - error: Storage failures
	*/
	Redeem(context context.Context, code string, ttl time.Duration) (bool, error)
}
