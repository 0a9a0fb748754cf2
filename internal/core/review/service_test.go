// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/review"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

/*
TestService_CreateReview validates payloads and the one-review-per-title rule.
*/
func TestService_CreateReview(t *testing.T) {
	tests := []struct {
		name  string
		input review.ReviewInput
		field string
	}{
		{"valid", review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(9)}, ""},
		{"lowest score", review.ReviewInput{Text: pointer.To("Meh"), Score: pointer.To(1)}, ""},
		{"highest score", review.ReviewInput{Text: pointer.To("Masterpiece"), Score: pointer.To(10)}, ""},
		{"score too high", review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(11)}, "score"},
		{"score zero", review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(0)}, "score"},
		{"missing score", review.ReviewInput{Text: pointer.To("Great")}, "score"},
		{"missing text", review.ReviewInput{Score: pointer.To(5)}, "text"},
		{"blank text", review.ReviewInput{Text: pointer.To("   "), Score: pointer.To(5)}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newMemoryStore(1))

			created, err := service.CreateReview(context.Background(), alice, 1, tt.input)
			if tt.field != "" {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.True(t, ae.HasField(tt.field), "details: %+v", ae.Details)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice", created.Author)
			assert.NotZero(t, created.ID)
			assert.False(t, created.PubDate.IsZero())
		})
	}
}

func TestService_CreateReview_UnknownTitle(t *testing.T) {
	service := newService(newMemoryStore(1))

	_, err := service.CreateReview(context.Background(), alice, 2, review.ReviewInput{Text: pointer.To("x"), Score: pointer.To(5)})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_CreateReview_Duplicate covers both the lookup and the unique index path.
*/
func TestService_CreateReview_Duplicate(t *testing.T) {
	for _, lostRace := range []bool{false, true} {
		store := newMemoryStore(1)
		service := newService(store)
		ctx := context.Background()
		input := review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(9)}

		_, err := service.CreateReview(ctx, alice, 1, input)
		require.NoError(t, err)

		store.skipLookup = lostRace
		_, err = service.CreateReview(ctx, alice, 1, input)

		ae := apperr.As(err)
		require.NotNil(t, ae, "lostRace=%v", lostRace)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.True(t, ae.HasField(dberr.NonFieldErrors))

		_, err = service.CreateReview(ctx, bob, 1, input)
		assert.NoError(t, err, "another author may still review the title")
	}
}

/*
TestService_ReviewPermissions checks who may edit or delete a review written by alice.
*/
func TestService_ReviewPermissions(t *testing.T) {
	tests := []struct {
		name    string
		claims  *sec.AuthClaims
		allowed bool
	}{
		{"author", alice, true},
		{"other user", bob, false},
		{"moderator", moderator, true},
		{"admin", admin, true},
		{"superuser", root, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newMemoryStore(1))
			ctx := context.Background()

			created, err := service.CreateReview(ctx, alice, 1, review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(9)})
			require.NoError(t, err)

			updated, err := service.UpdateReview(ctx, tt.claims, 1, created.ID, review.ReviewInput{Score: pointer.To(3)})
			if !tt.allowed {
				assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)
				assert.Equal(t, http.StatusForbidden, apperr.As(service.DeleteReview(ctx, tt.claims, 1, created.ID)).HTTPStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 3, updated.Score)
			assert.Equal(t, "Great", updated.Text)
			assert.Equal(t, "alice", updated.Author)

			require.NoError(t, service.DeleteReview(ctx, tt.claims, 1, created.ID))
			_, err = service.GetReview(ctx, 1, created.ID)
			assert.True(t, apperr.IsNotFound(err))
		})
	}
}

func TestService_UpdateReview_Validation(t *testing.T) {
	service := newService(newMemoryStore(1))
	ctx := context.Background()

	created, err := service.CreateReview(ctx, alice, 1, review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(9)})
	require.NoError(t, err)

	_, err = service.UpdateReview(ctx, alice, 1, created.ID, review.ReviewInput{Score: pointer.To(42)})
	assert.True(t, apperr.As(err).HasField("score"))
}

/*
TestService_Scoping ensures a review is reachable only through its own title.
*/
func TestService_Scoping(t *testing.T) {
	service := newService(newMemoryStore(1, 2))
	ctx := context.Background()

	created, err := service.CreateReview(ctx, alice, 1, review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(9)})
	require.NoError(t, err)

	_, err = service.GetReview(ctx, 2, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.CreateComment(ctx, bob, 2, created.ID, review.CommentInput{Text: pointer.To("Agreed")})
	assert.True(t, apperr.IsNotFound(err))

	_, _, err = service.ListReviews(ctx, 3, 5, 0)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Comments walks a comment through its lifecycle.
*/
func TestService_Comments(t *testing.T) {
	service := newService(newMemoryStore(1))
	ctx := context.Background()

	created, err := service.CreateReview(ctx, alice, 1, review.ReviewInput{Text: pointer.To("Great"), Score: pointer.To(9)})
	require.NoError(t, err)

	_, err = service.CreateComment(ctx, bob, 1, created.ID, review.CommentInput{})
	assert.True(t, apperr.As(err).HasField("text"))

	first, err := service.CreateComment(ctx, bob, 1, created.ID, review.CommentInput{Text: pointer.To("Agreed")})
	require.NoError(t, err)
	second, err := service.CreateComment(ctx, alice, 1, created.ID, review.CommentInput{Text: pointer.To("Thanks")})
	require.NoError(t, err)

	comments, total, err := service.ListComments(ctx, 1, created.ID, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, second.ID, comments[0].ID, "newest first")

	_, err = service.UpdateComment(ctx, alice, 1, created.ID, first.ID, review.CommentInput{Text: pointer.To("Nope")})
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	edited, err := service.UpdateComment(ctx, moderator, 1, created.ID, first.ID, review.CommentInput{Text: pointer.To("[removed]")})
	require.NoError(t, err)
	assert.Equal(t, "bob", edited.Author)

	require.NoError(t, service.DeleteComment(ctx, bob, 1, created.ID, first.ID))
	_, err = service.GetComment(ctx, 1, created.ID, first.ID)
	assert.True(t, apperr.IsNotFound(err))
}
