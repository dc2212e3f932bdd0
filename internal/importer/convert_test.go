package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_BuildsPayloads(t *testing.T) {
	schema := &FactorSchema{
		Factors: []FactorImport{
			{Name: "Color", Optional: true, Order: 1, Options: []OptionImport{{Name: "Red"}, {Name: "Blue", Order: 1}}},
			{Name: "Material"},
		},
	}

	payloads := Convert(schema)
	require.Len(t, payloads, 2)
	assert.Equal(t, "Color", payloads[0].Name)
	assert.True(t, payloads[0].IsOptional)
	assert.Equal(t, 1, payloads[0].SortOrder)
	require.Len(t, payloads[0].Options, 2)
	assert.Equal(t, "Blue", payloads[0].Options[1].Name)
	assert.False(t, payloads[1].IsOptional)
	assert.Empty(t, payloads[1].Options)
}

func TestLoadFactorSchema_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factors.json")
	content := `{
		"factors": [
			{"name": "Color", "optional": true, "options": [{"name": "Red"}, {"name": "Blue", "order": 1}]},
			{"name": "Material", "order": 1}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	schema, err := LoadFactorSchema(path)
	require.NoError(t, err)
	require.Len(t, schema.Factors, 2)
	assert.Equal(t, "Color", schema.Factors[0].Name)
	assert.Len(t, schema.Factors[0].Options, 2)

	assert.Empty(t, ValidateFactorSchema(schema))
}

func TestLoadFactorSchema_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadFactorSchema(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}
