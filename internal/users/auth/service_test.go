// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

/*
TestSignup_Validation covers payloads rejected before touching storage.
*/
func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    auth.SignupInput
		badField string
	}{
		{"reserved username", auth.SignupInput{Username: "me", Email: "me@example.com"}, auth.FieldUsername},
		{"invalid characters", auth.SignupInput{Username: "bad name!", Email: "a@example.com"}, auth.FieldUsername},
		{"username too long", auth.SignupInput{Username: strings.Repeat("u", 151), Email: "a@example.com"}, auth.FieldUsername},
		{"missing username", auth.SignupInput{Email: "a@example.com"}, auth.FieldUsername},
		{"invalid email", auth.SignupInput{Username: "reader", Email: "not-an-email"}, auth.FieldEmail},
		{"email too long", auth.SignupInput{Username: "reader", Email: strings.Repeat("e", 250) + "@x.io"}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Signup(context.Background(), tt.input)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			assert.True(t, ae.HasField(tt.badField), "details: %+v", ae.Details)
		})
	}
}

/*
TestSignup_Collisions verifies the asymmetric username/email rules.
*/
func TestSignup_Collisions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.service.Signup(ctx, auth.SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, first.Role)
	f.mailer.nextCode(t)

	// Same pair again is idempotent and mails another code.
	again, err := f.service.Signup(ctx, auth.SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	f.mailer.nextCode(t)

	_, err = f.service.Signup(ctx, auth.SignupInput{Username: "reader", Email: "other@example.com"})
	assert.True(t, apperr.As(err).HasField(auth.FieldUsername))

	_, err = f.service.Signup(ctx, auth.SignupInput{Username: "writer", Email: "reader@example.com"})
	assert.True(t, apperr.As(err).HasField(auth.FieldEmail))
}

/*
TestSignup_LostRace checks that losing the insert to an identical signup still succeeds.
*/
func TestSignup_LostRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.users.createHook = func(user *auth.User) error {
		f.users.createHook = nil
		winner := &auth.User{Username: user.Username, Email: user.Email, Role: sec.RoleUser}
		require.NoError(t, f.users.Create(ctx, winner))
		return apperr.Field(auth.FieldUsername, "Already exists")
	}

	user, err := f.service.Signup(ctx, auth.SignupInput{Username: "racer", Email: "racer@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

/*
TestSignup_MailFailureIsSwallowed ensures delivery errors never reach the client.
*/
func TestSignup_MailFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.mailer.fail = true

	_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	f.mailer.nextCode(t)
}

/*
TestIssueToken walks the exchange: success, single use and invalidation of older codes.
*/
func TestIssueToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	older := f.mailer.nextCode(t)

	// Codes are bound to the issue second, so make sure the second code differs.
	time.Sleep(1100 * time.Millisecond)
	_, err = f.service.Signup(ctx, auth.SignupInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	newer := f.mailer.nextCode(t)
	require.NotEqual(t, older, newer)

	token, err := f.service.IssueToken(ctx, auth.TokenInput{Username: "reader", ConfirmationCode: newer})
	require.NoError(t, err)
	assert.Equal(t, "token-for-reader", token)

	tests := []struct {
		name   string
		input  auth.TokenInput
		status int
	}{
		{"reused code", auth.TokenInput{Username: "reader", ConfirmationCode: newer}, http.StatusBadRequest},
		{"code issued before last login", auth.TokenInput{Username: "reader", ConfirmationCode: older}, http.StatusBadRequest},
		{"garbage code", auth.TokenInput{Username: "reader", ConfirmationCode: "nope"}, http.StatusBadRequest},
		{"missing code", auth.TokenInput{Username: "reader"}, http.StatusBadRequest},
		{"code too long", auth.TokenInput{Username: "reader", ConfirmationCode: strings.Repeat("c", 255)}, http.StatusBadRequest},
		{"unknown user", auth.TokenInput{Username: "ghost", ConfirmationCode: newer}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.IssueToken(ctx, tt.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.status, ae.HTTPStatus)
		})
	}
}

/*
TestResolve replaces token claims with the stored account state.
*/
func TestResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := &auth.User{Username: "boss", Email: "boss@yamdb.com", Role: sec.RoleAdmin}
	require.NoError(t, f.users.Create(ctx, user))

	minted := &sec.AuthClaims{UserID: user.ID, Username: "boss", Role: string(sec.RoleAdmin)}

	// ── 1. Unchanged account ──
	claims, err := f.service.Resolve(ctx, minted)
	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)

	// ── 2. Demoted after the token was issued ──
	f.users.mu.Lock()
	f.users.byID[user.ID].Role = sec.RoleUser
	f.users.mu.Unlock()

	claims, err = f.service.Resolve(ctx, minted)
	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleUser), claims.Role)
	assert.False(t, sec.IsAdmin(claims))
	assert.Equal(t, string(sec.RoleAdmin), minted.Role, "token claims are not mutated")

	// ── 3. Deleted ──
	f.users.mu.Lock()
	delete(f.users.byID, user.ID)
	f.users.mu.Unlock()

	_, err = f.service.Resolve(ctx, minted)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
}
