package middleware

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/invoicehub/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Currency string `json:"currency" validate:"required,len=3"`
	Terms    int    `json:"payment_terms" validate:"gte=0,lte=365"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func TestFormatValidationErrors(t *testing.T) {
	v := newTestValidator()

	req := sampleRequest{
		Name:     "A",
		Email:    "not-an-email",
		Currency: "USDX",
		Terms:    500,
	}
	err := v.Struct(req)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-42")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 4)

	fields := make(map[string]string)
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Contains(t, fields["name"], "at least 2")
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Contains(t, fields["currency"], "exactly 3")
	assert.Contains(t, fields["payment_terms"], "less than or equal to 365")
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestGetValidationMessage(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		req      sampleRequest
		field    string
		expected string
	}{
		{
			name:     "required",
			req:      sampleRequest{Email: "a@b.example", Currency: "USD"},
			field:    "name",
			expected: "This field is required",
		},
		{
			name:     "email",
			req:      sampleRequest{Name: "Acme", Email: "nope", Currency: "USD"},
			field:    "email",
			expected: "Invalid email format",
		},
		{
			name:     "len",
			req:      sampleRequest{Name: "Acme", Email: "a@b.example", Currency: "US"},
			field:    "currency",
			expected: "Must be exactly 3 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			require.Error(t, err)

			validationErrors, ok := err.(validator.ValidationErrors)
			require.True(t, ok)

			found := false
			for _, e := range validationErrors {
				if e.Field() == tt.field {
					assert.Equal(t, tt.expected, getValidationMessage(e))
					found = true
				}
			}
			assert.True(t, found, "expected a validation error on %s", tt.field)
		})
	}
}
