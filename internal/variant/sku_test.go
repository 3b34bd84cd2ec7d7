package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/trimstore-service/internal/model"
)

const testProductID = "3f2a9c1e-7b44-4d0a-9e52-6a1f0c2b8d11"

func TestDeriveSKU(t *testing.T) {
	tests := []struct {
		name string
		v    model.Variant
		want string
	}{
		{"button", model.Variant{Size: "10mm", Color: "Black", Pack: "24 Pieces"}, "3F2A9C1E-10MM-BLACK-24PIECES"},
		{"zipper with quantity", model.Variant{Size: "5 inch", Color: "Red", Pack: "Bundle", Quantity: "50"}, "3F2A9C1E-5INCH-RED-BUNDLE-50"},
		{"missing attributes", model.Variant{Color: "Off-White"}, "3F2A9C1E-OFFWHITE"},
		{"non ascii dropped", model.Variant{Size: "½ inch", Color: "Crème"}, "3F2A9C1E-INCH-CRME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSKU(testProductID, tt.v))
		})
	}
}

func TestDeriveSKU_NoProductID(t *testing.T) {
	assert.Equal(t, "SKU-S", DeriveSKU("", model.Variant{Size: "S"}))
}

func TestAssignSKUs(t *testing.T) {
	in := []model.Variant{
		{Size: "S", Color: "Red", SKU: "KEEP-ME"},
		{Size: "S", Color: "Red!"},
		{Size: "S", Color: "Red"},
		{Size: "M", SKU: "KEEP-ME"},
	}

	out := AssignSKUs(testProductID, in)

	require.Len(t, out, 4)
	assert.Equal(t, "KEEP-ME", out[0].SKU)
	assert.Equal(t, "3F2A9C1E-S-RED", out[1].SKU)
	assert.Equal(t, "3F2A9C1E-S-RED-2", out[2].SKU)
	assert.Equal(t, "3F2A9C1E-M", out[3].SKU, "duplicate stored SKU is re-derived")
	assert.Equal(t, "", in[1].SKU, "input is left untouched")
}
