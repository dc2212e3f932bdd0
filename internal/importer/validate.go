package importer

import "fmt"

// ValidateFactorSchema checks the import schema before conversion.
// Returns a slice of all validation errors found.
func ValidateFactorSchema(schema *FactorSchema) []error {
	var errs []error

	if len(schema.Factors) == 0 {
		errs = append(errs, fmt.Errorf("factors: at least one factor is required"))
	}

	seen := make(map[string]bool, len(schema.Factors))
	for i, f := range schema.Factors {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("factors[%d].name is required", i))
		} else if seen[f.Name] {
			errs = append(errs, fmt.Errorf("factors[%d].name: duplicate factor %q", i, f.Name))
		}
		seen[f.Name] = true

		if f.Order < 0 {
			errs = append(errs, fmt.Errorf("factors[%d].order must not be negative", i))
		}
		if !f.Optional && len(f.Options) > 0 {
			errs = append(errs, fmt.Errorf("factors[%d] (%q): options given but factor is not optional", i, f.Name))
		}

		optionSeen := make(map[string]bool, len(f.Options))
		for j, o := range f.Options {
			if o.Name == "" {
				errs = append(errs, fmt.Errorf("factors[%d].options[%d].name is required", i, j))
			} else if optionSeen[o.Name] {
				errs = append(errs, fmt.Errorf("factors[%d].options[%d].name: duplicate option %q", i, j, o.Name))
			}
			optionSeen[o.Name] = true
			if o.Order < 0 {
				errs = append(errs, fmt.Errorf("factors[%d].options[%d].order must not be negative", i, j))
			}
		}
	}

	return errs
}
