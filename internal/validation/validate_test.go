package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
)

type sample struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	Kind  string   `json:"kind" validate:"omitempty,oneof=A B"`
}

func TestStruct(t *testing.T) {
	neg := -1.0

	tests := []struct {
		name  string
		in    sample
		field string
	}{
		{name: "valid", in: sample{Name: "x"}},
		{name: "missing name", in: sample{}, field: "name"},
		{name: "negative price", in: sample{Name: "x", Price: &neg}, field: "min_price"},
		{name: "bad enum", in: sample{Name: "x", Kind: "C"}, field: "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidArgument))

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.field, ae.Field)
		})
	}
}
