package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

type sample struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required,max=5"`
	Kind  string `validate:"omitempty,oneof=a b"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      sample
		wantFields map[string]string
	}{
		{
			name:  "Valid",
			input: sample{Email: "alice@example.com", Name: "alice"},
		},
		{
			name:  "MissingAndMalformed",
			input: sample{Email: "nope", Name: ""},
			wantFields: map[string]string{
				"Email": "must be a valid email address",
				"Name":  "is required",
			},
		},
		{
			name:  "TooLongAndBadKind",
			input: sample{Email: "alice@example.com", Name: "alice-long", Kind: "c"},
			wantFields: map[string]string{
				"Name": "must be at most 5 characters",
				"Kind": "must be one of: a b",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.input)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var vErr *validation.Error
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantFields, vErr.Fields)
		})
	}
}

func TestError_MessageIsSorted(t *testing.T) {
	err := &validation.Error{Fields: map[string]string{"b": "is required", "a": "is invalid"}}
	assert.Equal(t, "invalid input: a is invalid; b is required", err.Error())
}
