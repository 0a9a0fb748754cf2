// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/convert"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for titles.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// RegisterRoutes attaches the title endpoints to router (mounted at /titles).
//
// Registration happens inside a group so nested resources such as reviews can
// share the same router without inheriting the admin write rule.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(titles chi.Router) {
		titles.Use(middleware.AdminOrReadOnly)

		titles.Get("/", handler.list)
		titles.Post("/", handler.create)
		titles.Get("/{title_id}", handler.get)
		titles.Patch("/{title_id}", handler.update)
		titles.Delete("/{title_id}", handler.delete)
	})
}

// # Request Payloads

// nullableString remembers whether the key was present, so that null can clear a value.
type nullableString struct {
	set   bool
	value *string
}

func (field *nullableString) UnmarshalJSON(data []byte) error {
	field.set = true
	return json.Unmarshal(data, &field.value)
}

type writeRequest struct {
	Name        *string        `json:"name"`
	Year        *int           `json:"year"`
	Description *string        `json:"description"`
	Category    nullableString `json:"category"`
	Genre       []string       `json:"genre"`
}

func (input writeRequest) toInput() WriteInput {
	return WriteInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CategorySet: input.Category.set,
		Category:    input.Category.value,
		Genre:       input.Genre,
	}
}

// # Endpoints

/*
GET /api/v1/titles

Request:
  - Query: name (contains), year, category (slug), genre (slug), page, limit

Response:
  - 200: Paginated titles with rating, category and genres
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Name:     query.Get("name"),
		Category: query.Get("category"),
		Genre:    query.Get("genre"),
		Year:     convert.ToInt(query.Get("year")),
	}

	titles, total, err := handler.titleService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/titles

Description: Admin only.

Request:
  - Body: {name, year, description, category: slug, genre: [slug]}

Response:
  - 201: Title
  - 400: Validation failure or unknown slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input writeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Create(request.Context(), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
GET /api/v1/titles/{title_id}

Response:
  - 200: Title
  - 404: Unknown id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

// PATCH /api/v1/titles/{title_id} (admin only).
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input writeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Update(request.Context(), id, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

// DELETE /api/v1/titles/{title_id} (admin only).
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.titleService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
