// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] meant to be mounted at /titles/{title_id}/reviews.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.AuthenticatedOrReadOnly)

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)

	router.Route("/{review_id}", func(review chi.Router) {
		review.Get("/", handler.getReview)
		review.Patch("/", handler.updateReview)
		review.Delete("/", handler.deleteReview)

		review.Get("/comments", handler.listComments)
		review.Post("/comments", handler.createComment)
		review.Get("/comments/{comment_id}", handler.getComment)
		review.Patch("/comments/{comment_id}", handler.updateComment)
		review.Delete("/comments/{comment_id}", handler.deleteComment)
	})

	return router
}

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

// path holds the numeric identifiers of a nested request.
type path struct {
	titleID   int64
	reviewID  int64
	commentID int64
}

// parsePath reads as many identifiers as the route declares; unknown ones answer 404.
func parsePath(request *http.Request, depth int) (path, error) {
	var (
		ids path
		err error
	)

	if ids.titleID, err = requestutil.ID(request, "title_id", "Title"); err != nil || depth == 1 {
		return ids, err
	}
	if ids.reviewID, err = requestutil.ID(request, "review_id", "Review"); err != nil || depth == 2 {
		return ids, err
	}
	ids.commentID, err = requestutil.ID(request, "comment_id", "Comment")
	return ids, err
}

// # Review Endpoints

/*
GET /api/v1/titles/{title_id}/reviews

Response:
  - 200: Paginated [{id, text, author, score, pub_date}], newest first
  - 404: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 1)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.reviewService.ListReviews(request.Context(), ids.titleID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/titles/{title_id}/reviews

Description: Authenticated. One review per user and title.

Request:
  - Body: {text, score}

Response:
  - 201: Review
  - 400: Validation failure or a second review of the same title
  - 401: Anonymous caller
  - 404: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 1)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.CreateReview(request.Context(), claims, ids.titleID, ReviewInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.GetReview(request.Context(), ids.titleID, ids.reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

/*
PATCH /api/v1/titles/{title_id}/reviews/{review_id}

Description: Author, moderator or admin only.

Response:
  - 200: Review
  - 403: Caller may not modify this review
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.UpdateReview(request.Context(), claims, ids.titleID, ids.reviewID, ReviewInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteReview(request.Context(), claims, ids.titleID, ids.reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comment Endpoints

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.reviewService.ListComments(request.Context(), ids.titleID, ids.reviewID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/titles/{title_id}/reviews/{review_id}/comments

Request:
  - Body: {text}

Response:
  - 201: {id, text, author, pub_date}
  - 404: Unknown title, or review not under that title
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 2)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.CreateComment(request.Context(), claims, ids.titleID, ids.reviewID, CommentInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.GetComment(request.Context(), ids.titleID, ids.reviewID, ids.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// PATCH /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.UpdateComment(request.Context(), claims, ids.titleID, ids.reviewID, ids.commentID, CommentInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := parsePath(request, 3)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteComment(request.Context(), claims, ids.titleID, ids.reviewID, ids.commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
