package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
	Internal string `json:"-" validate:"required"`
}

func TestStructFields(t *testing.T) {
	assert.NoError(t, StructFields(payload{Name: "x", Quantity: 1, Internal: "y"}))

	err := StructFields(payload{Quantity: 0})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)
	assert.Equal(t, FieldViolation{Field: "payload.name", Rule: "required"}, verrs[0])
	assert.Equal(t, FieldViolation{Field: "payload.quantity", Rule: "min", Param: "1"}, verrs[1])
	assert.Equal(t, "payload.Internal", verrs[2].Field)
}
