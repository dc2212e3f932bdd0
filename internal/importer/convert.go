package importer

import "github.com/quotekit/cpq/internal/contract"

// Convert transforms a validated FactorSchema into service payloads.
// Call ValidateFactorSchema first; Convert assumes the schema is valid.
func Convert(schema *FactorSchema) []contract.SaveFactor {
	payloads := make([]contract.SaveFactor, 0, len(schema.Factors))
	for _, f := range schema.Factors {
		payload := contract.SaveFactor{
			Name:       f.Name,
			IsOptional: f.Optional,
			SortOrder:  f.Order,
		}
		for _, o := range f.Options {
			payload.Options = append(payload.Options, contract.SaveOption{
				Name:      o.Name,
				SortOrder: o.Order,
			})
		}
		payloads = append(payloads, payload)
	}
	return payloads
}
