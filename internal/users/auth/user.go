// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements signup and token exchange for yamdb.

There are no passwords: a visitor signs up with a username and an email,
receives a confirmation code by mail and trades it for a bearer token.

# Architecture

  - User: the account entity shared with the account package.
  - UserRepository: PostgreSQL access to users.account.
  - CodeLedger: Redis record of redeemed confirmation codes (single use).
  - Service: orchestrates validation, code issue/verification and token minting.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of yamdb.
type User struct {
	ID          int64        `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"`
	LastLoginAt *time.Time   `json:"-"`
	DateJoined  time.Time    `json:"-"`
}

// Identity returns what a bearer token minted for the user carries.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Superuser: user.IsSuperuser,
	}
}

// CodeSubject returns the account state confirmation codes are bound to.
func (user *User) CodeSubject() sec.CodeSubject {
	return sec.CodeSubject{
		UserID:    user.ID,
		Email:     user.Email,
		LastLogin: user.LastLoginAt,
	}
}

// # Field Identifiers

// JSON field names shared by validation errors and payloads.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)
