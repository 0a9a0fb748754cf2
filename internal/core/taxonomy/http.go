// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for one vocabulary.
type Handler struct {
	taxonomyService *Service
}

// NewHandler constructs a new taxonomy [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{taxonomyService: service}
}

// Routes returns a [chi.Router] mounted at /categories or /genres.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.AdminOrReadOnly)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}", handler.delete)

	return router
}

type createRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
GET /api/v1/categories, GET /api/v1/genres

Request:
  - Query: search (name contains), page, limit

Response:
  - 200: Paginated [{name, slug}]
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Search: request.URL.Query().Get("search")}

	terms, total, err := handler.taxonomyService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, terms, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/categories, POST /api/v1/genres

Description: Admin only. The slug is derived from the name when omitted.

Response:
  - 201: {name, slug}
  - 400: Validation failure or duplicate slug
  - 403: Caller is not an administrator
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.taxonomyService.Create(request.Context(), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, term)
}

/*
DELETE /api/v1/categories/{slug}, DELETE /api/v1/genres/{slug}

Response:
  - 204: Deleted
  - 404: Unknown slug
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.taxonomyService.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
