// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

const (
	msgAlreadyReviewed = "You have already reviewed this title"
	msgNotAllowed      = "You do not have permission to perform this action"
)

// # Service Layer

// Service orchestrates reviews and comments.
type Service struct {
	reviews  ReviewRepository
	comments CommentRepository
	logger   *slog.Logger
}

// NewService constructs a new review [Service].
func NewService(reviews ReviewRepository, comments CommentRepository, logger *slog.Logger) *Service {
	return &Service{reviews: reviews, comments: comments, logger: logger}
}

// ReviewInput is a review payload; nil fields are omitted.
type ReviewInput struct {
	Text  *string
	Score *int
}

// CommentInput is a comment payload.
type CommentInput struct {
	Text *string
}

// # Reviews

// ListReviews returns one page of a title's reviews.
func (service *Service) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	if err := service.reviews.TitleExists(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.reviews.List(context, titleID, limit, offset)
}

// GetReview returns one review of a title.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	if err := service.reviews.TitleExists(context, titleID); err != nil {
		return nil, err
	}
	return service.reviews.FindByID(context, titleID, reviewID)
}

/*
CreateReview stores the caller's review of a title.

Description: The title must exist. text is required and score must lie
in [1, 10]. A second review of the same title by the same author is rejected
with 400, whether caught by the lookup or by the unique index.

Returns:
  - *Review: The stored review
  - error: 404 unknown title, 400 validation or duplicate
*/
func (service *Service) CreateReview(context context.Context, claims *sec.AuthClaims, titleID int64, input ReviewInput) (*Review, error) {
	if err := service.reviews.TitleExists(context, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: claims.UserID,
		Author:   claims.Username,
		Text:     pointer.Trimmed(input.Text),
		Score:    pointer.Or(input.Score, 0),
	}

	validator := (&validate.Validator{}).Custom(FieldScore, input.Score == nil, "This field is required")
	if err := validateReview(validator, review); err != nil {
		return nil, err
	}

	// ── Advisory duplicate check ──
	_, err := service.reviews.FindByAuthor(context, titleID, claims.UserID)
	switch {
	case err == nil:
		return nil, apperr.Field(dberr.NonFieldErrors, msgAlreadyReviewed)
	case !apperr.IsNotFound(err):
		return nil, err
	}

	if err := service.reviews.Create(context, review); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Field(dberr.NonFieldErrors, msgAlreadyReviewed)
		}
		return nil, err
	}

	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.Int64("author_id", claims.UserID),
	)
	return review, nil
}

// UpdateReview applies a partial change to a review the caller may modify.
func (service *Service) UpdateReview(context context.Context, claims *sec.AuthClaims, titleID, reviewID int64, input ReviewInput) (*Review, error) {
	review, err := service.modifiableReview(context, claims, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	review.Text = pointer.TrimmedOr(input.Text, review.Text)
	review.Score = pointer.Or(input.Score, review.Score)

	if err := validateReview(&validate.Validator{}, review); err != nil {
		return nil, err
	}

	if err := service.reviews.Update(context, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review the caller may modify.
func (service *Service) DeleteReview(context context.Context, claims *sec.AuthClaims, titleID, reviewID int64) error {
	if _, err := service.modifiableReview(context, claims, titleID, reviewID); err != nil {
		return err
	}

	if err := service.reviews.Delete(context, reviewID); err != nil {
		return err
	}

	service.logger.Info("review_deleted", slog.Int64("review_id", reviewID), slog.Int64("actor_id", claims.UserID))
	return nil
}

// # Comments

// ListComments returns one page of comments under a review.
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.comments.List(context, reviewID, limit, offset)
}

// GetComment returns one comment under a review.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.comments.FindByID(context, reviewID, commentID)
}

// CreateComment stores the caller's comment under a review.
func (service *Service) CreateComment(context context.Context, claims *sec.AuthClaims, titleID, reviewID int64, input CommentInput) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: claims.UserID,
		Author:   claims.Username,
		Text:     pointer.Trimmed(input.Text),
	}

	if err := (&validate.Validator{}).Required(FieldText, comment.Text).Err(); err != nil {
		return nil, err
	}

	if err := service.comments.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created", slog.Int64("comment_id", comment.ID), slog.Int64("review_id", reviewID))
	return comment, nil
}

// UpdateComment changes the text of a comment the caller may modify.
func (service *Service) UpdateComment(context context.Context, claims *sec.AuthClaims, titleID, reviewID, commentID int64, input CommentInput) (*Comment, error) {
	comment, err := service.modifiableComment(context, claims, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Text = pointer.TrimmedOr(input.Text, comment.Text)
	if err := (&validate.Validator{}).Required(FieldText, comment.Text).Err(); err != nil {
		return nil, err
	}

	if err := service.comments.Update(context, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment the caller may modify.
func (service *Service) DeleteComment(context context.Context, claims *sec.AuthClaims, titleID, reviewID, commentID int64) error {
	if _, err := service.modifiableComment(context, claims, titleID, reviewID, commentID); err != nil {
		return err
	}

	if err := service.comments.Delete(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.Int64("comment_id", commentID), slog.Int64("actor_id", claims.UserID))
	return nil
}

// # Helpers

func validateReview(validator *validate.Validator, review *Review) error {
	validator.Required(FieldText, review.Text)
	if !validator.Failed(FieldScore) {
		validator.Range(FieldScore, review.Score, constants.MinScore, constants.MaxScore)
	}
	return validator.Err()
}

func (service *Service) modifiableReview(context context.Context, claims *sec.AuthClaims, titleID, reviewID int64) (*Review, error) {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !sec.CanModify(claims, review.AuthorID) {
		return nil, apperr.Forbidden(msgNotAllowed)
	}
	return review, nil
}

func (service *Service) modifiableComment(context context.Context, claims *sec.AuthClaims, titleID, reviewID, commentID int64) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !sec.CanModify(claims, comment.AuthorID) {
		return nil, apperr.Forbidden(msgNotAllowed)
	}
	return comment, nil
}
