package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFactorSchema_Valid(t *testing.T) {
	schema := &FactorSchema{
		Factors: []FactorImport{
			{Name: "Color", Optional: true, Options: []OptionImport{{Name: "Red"}, {Name: "Blue", Order: 1}}},
			{Name: "Material", Order: 1},
		},
	}
	assert.Empty(t, ValidateFactorSchema(schema))
}

func TestValidateFactorSchema_Empty(t *testing.T) {
	errs := ValidateFactorSchema(&FactorSchema{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one factor")
}

func TestValidateFactorSchema_CollectsAllErrors(t *testing.T) {
	schema := &FactorSchema{
		Factors: []FactorImport{
			{Name: ""},
			{Name: "Color", Options: []OptionImport{{Name: "Red"}}},
			{Name: "Color", Optional: true, Options: []OptionImport{{Name: "Red"}, {Name: "Red"}}},
		},
	}
	errs := ValidateFactorSchema(schema)
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "factors[0].name is required")
	assert.Contains(t, errs[1].Error(), "not optional")
	assert.Contains(t, errs[2].Error(), "duplicate factor")
	assert.Contains(t, errs[3].Error(), "duplicate option")
}
