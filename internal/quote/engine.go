// Package quote turns a product and a set of caller-supplied parameters
// into a priced quote. The engine is stateless and never mutates its
// inputs, so identical inputs give identical outputs and concurrent
// quoting is safe.
package quote

import (
	"sort"

	"github.com/quotekit/cpq/internal/domain"
	"github.com/quotekit/cpq/internal/expr"
)

// CostQuote is one priced line item: the winning rule's action result
// together with the cost and rule that produced it.
type CostQuote struct {
	Price float64
	Cost  *domain.Cost
	Rule  *domain.Rule
}

// LeadtimeQuote is the first matching leadtime entry.
type LeadtimeQuote struct {
	Leadtime *domain.Leadtime
}

// ProductQuote aggregates the cost lines and the optional leadtime.
// Costs with no matching rule are omitted entirely; a missing leadtime
// leaves Leadtime nil.
type ProductQuote struct {
	Costs    []CostQuote
	Leadtime *LeadtimeQuote
}

// Engine evaluates quotes through the injected expression evaluator.
type Engine struct {
	eval expr.Evaluator
}

// NewEngine creates a quote engine.
func NewEngine(eval expr.Evaluator) *Engine {
	return &Engine{eval: eval}
}

// QuoteProduct prices every cost of the product and picks the first
// matching leadtime. Any expression error aborts the whole quote; there
// is no partial result.
func (e *Engine) QuoteProduct(tree *domain.ProductTree, params map[string]any) (*ProductQuote, error) {
	result := &ProductQuote{}

	for _, cost := range orderedCosts(tree.Costs) {
		cq, err := e.QuoteCost(cost, params)
		if err != nil {
			return nil, err
		}
		if cq != nil {
			result.Costs = append(result.Costs, *cq)
		}
	}

	lq, err := e.quoteLeadtime(tree, params)
	if err != nil {
		return nil, err
	}
	result.Leadtime = lq

	return result, nil
}

// QuoteCost scans the cost's rules in insertion order and prices the
// first one whose condition is empty or truthy. A nil result means no
// rule matched and the cost contributes no line item.
func (e *Engine) QuoteCost(tree *domain.CostTree, params map[string]any) (*CostQuote, error) {
	for _, rule := range tree.Rules {
		matched := true
		if rule.Condition != "" {
			out, err := e.eval.Evaluate(rule.Condition, params)
			if err != nil {
				return nil, &EvaluationError{Cost: tree.Cost, Rule: rule, Expression: rule.Condition, Err: err}
			}
			matched, err = expr.AsBool(out)
			if err != nil {
				return nil, &EvaluationError{Cost: tree.Cost, Rule: rule, Expression: rule.Condition, Err: err}
			}
		}
		if !matched {
			continue
		}

		out, err := e.eval.Evaluate(rule.Action, params)
		if err != nil {
			return nil, &EvaluationError{Cost: tree.Cost, Rule: rule, Expression: rule.Action, Err: err}
		}
		price, err := expr.AsNumber(out)
		if err != nil {
			return nil, &EvaluationError{Cost: tree.Cost, Rule: rule, Expression: rule.Action, Err: err}
		}
		return &CostQuote{Price: price, Cost: tree.Cost, Rule: rule}, nil
	}
	return nil, nil
}

func (e *Engine) quoteLeadtime(tree *domain.ProductTree, params map[string]any) (*LeadtimeQuote, error) {
	for _, lt := range orderedLeadtimes(tree.Leadtimes) {
		matched := true
		if lt.Condition != "" {
			out, err := e.eval.Evaluate(lt.Condition, params)
			if err != nil {
				return nil, &EvaluationError{Leadtime: lt, Expression: lt.Condition, Err: err}
			}
			matched, err = expr.AsBool(out)
			if err != nil {
				return nil, &EvaluationError{Leadtime: lt, Expression: lt.Condition, Err: err}
			}
		}
		if matched {
			return &LeadtimeQuote{Leadtime: lt}, nil
		}
	}
	return nil, nil
}

// orderedCosts returns a copy sorted by sort_order with id as the tie
// break, regardless of how the caller loaded the slice.
func orderedCosts(costs []*domain.CostTree) []*domain.CostTree {
	out := make([]*domain.CostTree, len(costs))
	copy(out, costs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Cost.SortOrder != out[j].Cost.SortOrder {
			return out[i].Cost.SortOrder < out[j].Cost.SortOrder
		}
		return out[i].Cost.ID < out[j].Cost.ID
	})
	return out
}

func orderedLeadtimes(leadtimes []*domain.Leadtime) []*domain.Leadtime {
	out := make([]*domain.Leadtime, len(leadtimes))
	copy(out, leadtimes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}
