package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required,max=5"`
	DoctorID uint   `json:"doctor_id" validate:"required"`
	Note     string `validate:"omitempty,min=2"`
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Name: "", DoctorID: 0, Note: "x"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"name":      "name is required",
		"doctor_id": "doctor_id is required",
		"Note":      "Note must be at least 2 characters",
	}, v.FormatValidationErrors(err))
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(&sample{Name: "Lee", DoctorID: 1}))
}
