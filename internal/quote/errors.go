package quote

import (
	"fmt"

	"github.com/quotekit/cpq/internal/domain"
)

// EvaluationError identifies the exact expression that failed during a
// quote: either a rule of a cost, or a leadtime condition.
type EvaluationError struct {
	Cost       *domain.Cost
	Rule       *domain.Rule
	Leadtime   *domain.Leadtime
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	switch {
	case e.Rule != nil:
		return fmt.Sprintf("quote: cost %q rule %d expression %q: %v", e.Cost.Code, e.Rule.ID, e.Expression, e.Err)
	case e.Leadtime != nil:
		return fmt.Sprintf("quote: leadtime %q expression %q: %v", e.Leadtime.Title, e.Expression, e.Err)
	default:
		return fmt.Sprintf("quote: expression %q: %v", e.Expression, e.Err)
	}
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
