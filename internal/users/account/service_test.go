// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

/*
TestService_Create covers field rules and uniqueness on admin creation.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name  string
		input account.CreateInput
		field string
	}{
		{"valid", account.CreateInput{Username: "critic", Email: "critic@example.com", Role: "moderator"}, ""},
		{"default role", account.CreateInput{Username: "critic", Email: "critic@example.com"}, ""},
		{"unknown role", account.CreateInput{Username: "critic", Email: "critic@example.com", Role: "root"}, "role"},
		{"taken username", account.CreateInput{Username: "reader", Email: "other@example.com"}, "username"},
		{"taken email", account.CreateInput{Username: "critic", Email: "reader@example.com"}, "email"},
		{"reserved username", account.CreateInput{Username: "me", Email: "me@example.com"}, "username"},
		{"bad email", account.CreateInput{Username: "critic", Email: "critic"}, "email"},
		{"long first name", account.CreateInput{Username: "critic", Email: "critic@example.com", FirstName: strings.Repeat("a", 151)}, "first_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := seeded()

			user, err := service.Create(context.Background(), tt.input)
			if tt.field == "" {
				require.NoError(t, err)
				assert.NotZero(t, user.ID)
				assert.True(t, user.Role.Valid())
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, 400, ae.HTTPStatus)
			assert.True(t, ae.HasField(tt.field), "expected error on %s, got %+v", tt.field, ae.Details)
		})
	}
}

/*
TestService_Update verifies partial updates and that an account may keep its own username.
*/
func TestService_Update(t *testing.T) {
	service, _ := seeded()
	ctx := context.Background()

	user, err := service.Update(ctx, "reader", account.UpdateInput{
		FirstName: pointer.To("Ann"),
		Role:      pointer.To("moderator"),
		Username:  pointer.To("reader"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.FirstName)
	assert.Equal(t, "likes films", user.Bio)
	assert.Equal(t, sec.RoleModerator, user.Role)

	_, err = service.Update(ctx, "reader", account.UpdateInput{Username: pointer.To("admin")})
	assert.True(t, apperr.As(err).HasField("username"))

	_, err = service.Update(ctx, "ghost", account.UpdateInput{})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_UpdateMe ensures the role cannot be changed through the self-service path.
*/
func TestService_UpdateMe(t *testing.T) {
	service, _ := seeded()
	ctx := context.Background()

	user, err := service.UpdateMe(ctx, 2, account.UpdateInput{
		Bio:  pointer.To("prefers books"),
		Role: pointer.To("admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "prefers books", user.Bio)
	assert.Equal(t, sec.RoleUser, user.Role)

	stored, err := service.Me(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, stored.Role)
	assert.Equal(t, "prefers books", stored.Bio)
}

func TestService_ListAndDelete(t *testing.T) {
	service, _ := seeded()
	ctx := context.Background()

	users, total, err := service.List(ctx, account.Filter{Search: "READ"}, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "reader", users[0].Username)

	require.NoError(t, service.Delete(ctx, "reader"))
	_, err = service.Get(ctx, "reader")
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(service.Delete(ctx, "reader")))
}
