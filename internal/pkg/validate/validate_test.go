package validate

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UsesJSONFieldNames(t *testing.T) {
	type input struct {
		LecturerName string `json:"lecturer_name" validate:"required"`
		Rating       int    `validate:"min=1"`
	}

	err := New().Struct(input{})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "lecturer_name", fieldErrs[0].Field())
	assert.Equal(t, "Rating", fieldErrs[1].Field())
}
