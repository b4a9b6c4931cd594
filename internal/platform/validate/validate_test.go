// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Nebula's End", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Range checks inclusive bounds used by ratings.
*/
func TestValidator_Range(t *testing.T) {
	for _, value := range []int{1, 3, 5} {
		v := &validate.Validator{}
		assert.NoError(t, v.Range("score", value, 1, 5).Err(), "value %d", value)
	}
	for _, value := range []int{0, 6, -1} {
		v := &validate.Validator{}
		assert.Error(t, v.Range("score", value, 1, 5).Err(), "value %d", value)
	}
}

/*
TestValidator_UUID checks the identifier format rule.
*/
func TestValidator_UUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"v7_lower", "01920f6e-8b1c-7c3a-9d2e-0a1b2c3d4e5f", true},
		{"upper", "01920F6E-8B1C-7C3A-9D2E-0A1B2C3D4E5F", true},
		{"short", "01920f6e", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.UUID("id", tt.value)
			assert.Equal(t, !tt.isValid, v.Err() != nil)
			assert.Equal(t, tt.isValid, validate.IsUUID(tt.value))
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "").           // Fails
		UUID("id", "nope").              // Fails
		MaxLen("bio", "abcdef", 3).      // Fails
		Custom("order", false, "never"). // Passes
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

type link struct {
	Platform string
	URL      string
}

func (l link) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Platform, validation.Required),
		validation.Field(&l.URL, validation.Required, is.URL),
	)
}

type payload struct {
	Name  string
	Links []link
}

/*
TestFromOzzo verifies ozzo errors become field-level VALIDATION_ERROR details.
*/
func TestFromOzzo(t *testing.T) {
	assert.NoError(t, validate.FromOzzo(nil))

	p := payload{Name: "", Links: []link{{Platform: "web", URL: "not a url"}}}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Links),
	)
	require.Error(t, err)

	ae := apperr.As(validate.FromOzzo(err))
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"Links.0.URL", "Name"}, fields)
}
