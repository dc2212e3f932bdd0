// Package expr evaluates user-authored rule expressions against a flat
// parameter mapping. The quote engine consumes the Evaluator interface;
// the default implementation compiles each expression in a fresh CEL
// environment so concurrent quotes never share evaluator state.
package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Evaluator turns an expression string and a variable mapping into a
// scalar. Implementations must be safe for concurrent use.
type Evaluator interface {
	Evaluate(expression string, params map[string]any) (any, error)
}

// CELEvaluator evaluates expressions with the Common Expression
// Language. Every parameter is declared as a dyn variable, so authors
// can write "qty > 100" or "10 + qty" without a schema.
type CELEvaluator struct{}

// NewCELEvaluator creates a CELEvaluator.
func NewCELEvaluator() CELEvaluator {
	return CELEvaluator{}
}

func (CELEvaluator) Evaluate(expression string, params map[string]any) (any, error) {
	opts := make([]cel.EnvOption, 0, len(params))
	for name := range params {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("building expression environment: %w", err)
	}

	ast, iss := env.Compile(expression)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compiling %q: %w", expression, iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("planning %q: %w", expression, err)
	}

	out, _, err := prg.Eval(params)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", expression, err)
	}
	return out.Value(), nil
}

// AsBool coerces an evaluation result to a boolean. Numeric results
// follow truthiness (non-zero is true), matching how authors use bare
// numeric expressions as conditions.
func AsBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case uint64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	default:
		return false, fmt.Errorf("expected a boolean result, got %T", v)
	}
}

// AsNumber coerces an evaluation result to a float64 price/amount.
func AsNumber(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("expected a numeric result, got %T", v)
	}
}
