// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for the user resource.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the user resource.
//
// /me is registered before /{username}; chi prefers the static segment.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self service
	router.Group(func(self chi.Router) {
		self.Use(middleware.RequireAuth)
		self.Get("/me", handler.getMe)
		self.Patch("/me", handler.updateMe)
	})

	// Administration
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Get("/", handler.list)
		admin.Post("/", handler.create)
		admin.Get("/{username}", handler.get)
		admin.Patch("/{username}", handler.update)
		admin.Delete("/{username}", handler.delete)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (input updateRequest) toInput() UpdateInput {
	return UpdateInput(input)
}

// # Administration Endpoints

/*
GET /api/v1/users

Description: Lists accounts ordered by username. Admin only.

Request:
  - Query: search (username contains), page, limit

Response:
  - 200: Paginated users
  - 401/403: Not an administrator
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Search: request.URL.Query().Get("search")}

	users, total, err := handler.accountService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/users

Description: Creates an account. Admin only.

Response:
  - 201: User
  - 400: Validation failure or duplicate username/email
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /api/v1/users/{username}

Response:
  - 200: User
  - 404: Unknown username
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/{username}

Description: Partially updates any account, role included. Admin only.
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.Param(request, "username"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{username}

Response:
  - 204: Deleted
  - 404: Unknown username
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.Delete(request.Context(), requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Self Service Endpoints

/*
GET /api/v1/users/me

Response:
  - 200: The caller's account
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Me(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me

Description: Partially updates the caller's account. A role in the payload is ignored.
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateMe(request.Context(), claims.UserID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}
