// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for minting bearer tokens.
type TokenProvider interface {
	GenerateAccessToken(identity sec.Identity, timeToLive time.Duration) (string, error)
}

// CodeSigner issues and verifies stateless confirmation codes.
type CodeSigner interface {
	Issue(subject sec.CodeSubject) string
	Verify(subject sec.CodeSubject, code string) (time.Time, error)
}

// Service implements the signup and token exchange use cases.
type Service struct {
	userRepository UserRepository
	codeLedger     CodeLedger
	codeSigner     CodeSigner
	tokenProvider  TokenProvider
	mailer         mail.Sender
	mailFrom       string
	logger         *slog.Logger
	now            func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	ledger CodeLedger,
	signer CodeSigner,
	tokenProv TokenProvider,
	mailer mail.Sender,
	mailFrom string,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeLedger:     ledger,
		codeSigner:     signer,
		tokenProvider:  tokenProv,
		mailer:         mailer,
		mailFrom:       mailFrom,
		logger:         logger,
		now:            time.Now,
	}
}

// # Signup Flow

// SignupInput holds the identity a visitor claims.
type SignupInput struct {
	Username string
	Email    string
}

// ValidateIdentity applies the username and email rules shared with the user resource.
func ValidateIdentity(validator *validate.Validator, username, email string) *validate.Validator {
	return validator.
		Required(FieldUsername, username).
		MaxLen(FieldUsername, username, constants.MaxUsernameLength).
		Username(FieldUsername, username).
		NotIn(FieldUsername, username, constants.ReservedUsernames...).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, constants.MaxEmailLength).
		Email(FieldEmail, email)
}

/*
Signup registers the visitor (or recognises a returning one) and mails a code.

Description: The same username and email pair may sign up any number of times;
each call mails a fresh code. A username or email already bound to a different
partner is rejected on that field.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The new or existing account
  - error: Validation failures or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, error) {
	if err := ValidateIdentity(&validate.Validator{}, input.Username, input.Email).Err(); err != nil {
		return nil, err
	}

	user, err := service.getOrCreate(context, input)
	if err != nil {
		return nil, err
	}

	service.sendConfirmationCode(user)

	return user, nil
}

func (service *Service) getOrCreate(context context.Context, input SignupInput) (*User, error) {

	// 1. Username taken: reuse only if the email matches
	byUsername, err := service.userRepository.FindByUsername(context, input.Username)
	switch {
	case err == nil && byUsername.Email == input.Email:
		return byUsername, nil
	case err == nil:
		return nil, apperr.Field(FieldUsername, "A user with that username already exists")
	case !apperr.IsNotFound(err):
		return nil, err
	}

	// 2. Email taken by somebody else
	_, err = service.userRepository.FindByEmail(context, input.Email)
	switch {
	case err == nil:
		return nil, apperr.Field(FieldEmail, "A user with that email already exists")
	case !apperr.IsNotFound(err):
		return nil, err
	}

	// 3. Brand new account
	user := &User{
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}
	if err := service.userRepository.Create(context, user); err != nil {

		// A concurrent signup with the same pair may have won the insert.
		if ae := apperr.As(err); ae != nil && ae.HTTPStatus == http.StatusBadRequest {
			if existing, lookupErr := service.userRepository.FindByUsername(context, input.Username); lookupErr == nil && existing.Email == input.Email {
				return existing, nil
			}
		}
		return nil, err
	}

	service.logger.Info("user_signed_up",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// sendConfirmationCode mails the code without holding up the response.
// Delivery failures are logged and otherwise ignored.
func (service *Service) sendConfirmationCode(user *User) {
	message := mail.Message{
		From:    service.mailFrom,
		To:      []string{user.Email},
		Subject: "yamdb confirmation code",
		Body: fmt.Sprintf(
			"Hello, %s!\n\nYour confirmation code: %s\n\nExchange it at /api/v1/auth/token to receive your access token.",
			user.Username, service.codeSigner.Issue(user.CodeSubject()),
		),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.MailDispatchTimeout)
		defer cancel()

		if err := service.mailer.Send(ctx, message); err != nil {
			service.logger.Warn("confirmation_mail_failed",
				slog.Int64("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}()
}

// # Token Exchange

// TokenInput carries the proof of email ownership.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
IssueToken exchanges a confirmation code for a bearer token.

Description: A code is valid once. Redeeming it stamps the account's last
login, which also invalidates every other code issued before.

Returns:
  - string: Signed access token
  - error: 400 on bad input or code, 404 for an unknown username
*/
func (service *Service) IssueToken(context context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode).
		MaxLen(FieldConfirmationCode, input.ConfirmationCode, constants.MaxConfirmationCodeLength)

	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return "", err
	}

	invalidCode := apperr.Field(FieldConfirmationCode, "Invalid or expired confirmation code")

	expiresAt, err := service.codeSigner.Verify(user.CodeSubject(), input.ConfirmationCode)
	if err != nil {
		return "", invalidCode
	}

	currentTime := service.now()
	first, err := service.codeLedger.Redeem(context, input.ConfirmationCode, expiresAt.Sub(currentTime))
	if err != nil {
		return "", apperr.Internal(err)
	}
	if !first {
		return "", invalidCode
	}

	if err := service.userRepository.TouchLastLogin(context, user.ID, currentTime); err != nil {
		return "", err
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.Identity(), constants.AccessTokenTTL)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	service.logger.Info("token_issued", slog.Int64("user_id", user.ID))

	return token, nil
}

// # Request Authentication

/*
Resolve reloads the account behind verified token claims.

Description: Role, superuser flag and username are taken from the stored
account rather than the token, so a demotion or rename applies to tokens
minted before it.

Returns:
  - *sec.AuthClaims: A copy of claims carrying the current account state
  - error: 401 when the account no longer exists, storage failures otherwise
*/
func (service *Service) Resolve(context context.Context, claims *sec.AuthClaims) (*sec.AuthClaims, error) {
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if apperr.IsNotFound(err) {
		return nil, apperr.Unauthorized("Account no longer exists")
	}
	if err != nil {
		return nil, err
	}

	current := *claims
	current.Username = user.Username
	current.Role = string(user.Role)
	current.Superuser = user.IsSuperuser
	return &current, nil
}
