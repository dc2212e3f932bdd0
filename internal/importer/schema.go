// Package importer loads bulk factor definitions from JSON files and
// turns them into service payloads. Load, validate, convert; the
// service layer owns persistence.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// FactorSchema is the top-level JSON structure for factor import.
type FactorSchema struct {
	Factors []FactorImport `json:"factors"`
}

// FactorImport defines one factor in the import file.
type FactorImport struct {
	Name     string         `json:"name"`
	Optional bool           `json:"optional"`
	Order    int            `json:"order"`
	Options  []OptionImport `json:"options,omitempty"`
}

// OptionImport defines one option of an optional factor.
type OptionImport struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// LoadFactorSchema reads and parses a factor import JSON file.
func LoadFactorSchema(path string) (*FactorSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema FactorSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
