// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// # Review Data Access

// ReviewRepository defines the persistence contract for reviews.
type ReviewRepository interface {

	// TitleExists returns apperr.NotFound when no title has the given id.
	TitleExists(context context.Context, titleID int64) error

	/*
		List returns one page of a title's reviews, newest first.

		Returns:
		  - []*Review: Reviews with author usernames
		  - int: Total reviews of the title
		  - error: Storage failures
	*/
	List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	/*
		FindByID retrieves a review of the given title.

		Returns:
		  - *Review: The review
		  - error: apperr.NotFound when missing or attached to another title
	*/
	FindByID(context context.Context, titleID, reviewID int64) (*Review, error)

	/*
		FindByAuthor retrieves the review a user wrote for a title, if any.

		Returns:
		  - *Review: The review
		  - error: apperr.NotFound when the user has not reviewed the title
	*/
	FindByAuthor(context context.Context, titleID, authorID int64) (*Review, error)

	/*
		Create inserts a review and fills its ID and PubDate.

		Returns:
		  - error: 400 when the author already reviewed the title
	*/
	Create(context context.Context, review *Review) error

	// Update writes the text and score of an existing review.
	Update(context context.Context, review *Review) error

	// Delete removes a review; its comments cascade.
	Delete(context context.Context, reviewID int64) error
}

// # Comment Data Access

// CommentRepository defines the persistence contract for comments.
type CommentRepository interface {

	// List returns one page of a review's comments, newest first.
	List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	/*
		FindByID retrieves a comment of the given review.

		Returns:
		  - *Comment: The comment
		  - error: apperr.NotFound when missing or attached to another review
	*/
	FindByID(context context.Context, reviewID, commentID int64) (*Comment, error)

	// Create inserts a comment and fills its ID and PubDate.
	Create(context context.Context, comment *Comment) error

	// Update writes the text of an existing comment.
	Update(context context.Context, comment *Comment) error

	// Delete removes a comment.
	Delete(context context.Context, commentID int64) error
}
