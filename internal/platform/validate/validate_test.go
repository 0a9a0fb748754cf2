// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Dune", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("name", tt.value)

			if !tt.hasError {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, "name", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"display_name", "Test <test@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := (&validate.Validator{}).Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Username covers the account name alphabet and reserved names.
*/
func TestValidator_Username(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"ascii", "john.doe", true},
		{"symbols", "a+b@c-d_e", true},
		{"unicode_letters", "Ёжик", true},
		{"space", "john doe", false},
		{"slash", "john/doe", false},
		{"reserved", "me", false},
		{"reserved_upper", "ME", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := (&validate.Validator{}).
				Username("username", tt.value).
				NotIn("username", tt.value, "me")
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Slug checks the slug alphabet.
*/
func TestValidator_Slug(t *testing.T) {
	assert.False(t, (&validate.Validator{}).Slug("slug", "sci_fi-2").HasErrors())
	assert.False(t, (&validate.Validator{}).Slug("slug", "Drama").HasErrors())
	assert.True(t, (&validate.Validator{}).Slug("slug", "sci fi").HasErrors())
	assert.True(t, (&validate.Validator{}).Slug("slug", "").HasErrors())
	assert.True(t, (&validate.Validator{}).Slug("slug", "ключ").HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").
		Range("score", 11, 1, 10).
		Email("email", "not-an-email").
		OneOf("role", "root", "user", "admin").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	assert.Len(t, ae.Details, 4)
	assert.True(t, v.Failed("score"))
	assert.False(t, v.Failed("bio"))
	assert.True(t, ae.HasField("role"))
}
