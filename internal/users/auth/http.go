// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the public signup and token endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /signup : Registers the visitor and mails a confirmation code.
//   - POST /token  : Exchanges a confirmation code for a bearer token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)

	return router
}

// # Request Payloads

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

/*
POST /api/v1/auth/signup

Description: Registers a new account (or recognises the same username and
email pair) and mails a confirmation code.

Request:
  - Body: signupRequest (username, email)

Response:
  - 200: {username, email} echoed back
  - 400: Validation failure or identity collision
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Username: input.Username,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signupRequest{Username: user.Username, Email: user.Email})
}

/*
POST /api/v1/auth/token

Description: Trades a confirmation code for a bearer token.

Request:
  - Body: tokenRequest (username, confirmation_code)

Response:
  - 200: {token}
  - 400: Missing fields or invalid, expired or reused code
  - 404: Unknown username
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.IssueToken(request.Context(), TokenInput{
		Username:         input.Username,
		ConfirmationCode: input.ConfirmationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldToken: token})
}
