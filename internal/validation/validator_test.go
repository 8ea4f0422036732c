package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string   `json:"name" validate:"nonblank"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Status string   `json:"status" validate:"omitempty,oneof=planning on_hold"`
	Amount int64    `json:"amountCents" validate:"gt=0"`
	Images []string `json:"beforeImages" validate:"min=1"`
}

func TestValidateStruct_OK(t *testing.T) {
	req := sampleRequest{Name: "Ada", Amount: 100, Images: []string{"a"}}
	assert.NoError(t, ValidateStruct(&req))
}

func TestValidateStruct_Messages(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		field   string
		message string
	}{
		{"blank name", sampleRequest{Name: "   ", Amount: 1, Images: []string{"a"}}, "name", "name is required"},
		{"bad email", sampleRequest{Name: "a", Email: "nope", Amount: 1, Images: []string{"a"}}, "email", "email must be a valid email address"},
		{"bad status", sampleRequest{Name: "a", Status: "done", Amount: 1, Images: []string{"a"}}, "status", "status must be one of: planning, on_hold"},
		{"zero amount", sampleRequest{Name: "a", Images: []string{"a"}}, "amountCents", "amountCents must be greater than 0"},
		{"no images", sampleRequest{Name: "a", Amount: 1}, "beforeImages", "beforeImages must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			require.Error(t, err)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.message, fe.Message)
		})
	}
}
