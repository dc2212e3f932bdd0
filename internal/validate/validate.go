// Package validate checks service payloads before any write happens.
// Shape checks (required fields, lengths) run through struct tags;
// relational checks that need the store (cost code uniqueness) take the
// relevant repository and the id to exclude on updates.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/quotekit/cpq/internal/contract"
	"github.com/quotekit/cpq/internal/repository"
)

// Error is a rejected payload. It carries the first violated field and
// its message, matching the first-error reporting of the services.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

var check = validator.New(validator.WithRequiredStructEnabled())

// structErr runs tag validation and converts the first violation into
// an *Error.
func structErr(payload any) error {
	err := check.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &Error{Field: strings.ToLower(fe.Field()), Message: tagMessage(fe)}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("is invalid (%s)", fe.Tag())
	}
}

// Version validates a version payload.
func Version(in contract.SaveVersion) error {
	return structErr(in)
}

// Product validates a product payload.
func Product(in contract.SaveProduct) error {
	return structErr(in)
}

// Factor validates a factor payload including nested options.
func Factor(in contract.SaveFactor) error {
	return structErr(in)
}

// Cost validates a cost payload including nested rules, and checks that
// the code is unused within the product. excludeID skips the cost being
// updated so it can keep its own code.
func Cost(ctx context.Context, costs repository.CostRepo, productID int64, in contract.SaveCost, excludeID int64) error {
	if err := structErr(in); err != nil {
		return err
	}
	existing, err := costs.GetByCode(ctx, productID, in.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return &Error{Field: "code", Message: fmt.Sprintf("%q is already used by another cost", in.Code)}
	}
	return nil
}

// Leadtime validates a leadtime payload.
func Leadtime(in contract.SaveLeadtime) error {
	return structErr(in)
}

// SortEntries validates a flat sort payload.
func SortEntries(entries []contract.SortEntry) error {
	for _, e := range entries {
		if err := structErr(e); err != nil {
			return err
		}
	}
	return nil
}

// FactorSortEntries validates a factor sort payload with nested option
// orders.
func FactorSortEntries(entries []contract.FactorSortEntry) error {
	for _, e := range entries {
		if err := structErr(e); err != nil {
			return err
		}
	}
	return nil
}
