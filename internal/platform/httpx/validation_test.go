package httpx

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestValidationMessage(t *testing.T) {
	type form struct {
		Name     string `validate:"required"`
		Quantity int64  `validate:"gte=0"`
		Expiry   string `validate:"omitempty,datetime=2006-01-02"`
		Unit     string `validate:"omitempty,oneof=kg pcs"`
	}
	v := validator.New()

	cases := []struct {
		name string
		in   form
		want string
	}{
		{"required", form{Quantity: 1}, "Name is required"},
		{"gte", form{Name: "Rice", Quantity: -1}, "Quantity must be at least 0"},
		{"datetime", form{Name: "Rice", Expiry: "31-12-2026"}, "Expiry must be a date in 2006-01-02 format"},
		{"oneof", form{Name: "Rice", Unit: "crate"}, "Unit must be one of: kg pcs"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			require.Error(t, err)
			require.Equal(t, tc.want, ValidationMessage(err))
		})
	}
}

func TestValidationMessageNonValidatorError(t *testing.T) {
	require.Equal(t, "validation failed", ValidationMessage(errors.New("boom")))
}
