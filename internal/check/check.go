// Package check evaluates boolean expressions against the fields of a CPU record,
// e.g. `vendor_id == "GenuineIntel" && threads_per_core >= 2`.
package check

import (
	"fmt"
	"strings"

	"github.com/casbin/govaluate"
	"github.com/earentir/lscpu"
	"github.com/pkg/errors"
)

// Parameters returns the record fields as expression variables. Numbers are
// float64, the type govaluate compares numeric literals as.
func Parameters(cpu lscpu.CPU) map[string]any {
	params := cpu.Map()
	for name, value := range params {
		if n, ok := value.(uint32); ok {
			params[name] = float64(n)
		}
	}
	return params
}

// functions callable from check expressions
func functions() map[string]govaluate.ExpressionFunction {
	functions := make(map[string]govaluate.ExpressionFunction)
	functions["contains"] = func(args ...any) (any, error) {
		s, substr, err := stringArgs("contains", args)
		if err != nil {
			return nil, err
		}
		return strings.Contains(s, substr), nil
	}
	functions["has_prefix"] = func(args ...any) (any, error) {
		s, prefix, err := stringArgs("has_prefix", args)
		if err != nil {
			return nil, err
		}
		return strings.HasPrefix(s, prefix), nil
	}
	return functions
}

func stringArgs(name string, args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", errors.Errorf("%s expects 2 arguments, got %d", name, len(args))
	}
	first, ok1 := args[0].(string)
	second, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return "", "", errors.Errorf("%s expects string arguments", name)
	}
	return first, second, nil
}

// Evaluate parses expr and evaluates it against cpu. The expression must
// produce a boolean.
func Evaluate(expr string, cpu lscpu.CPU) (result bool, err error) {
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, functions())
	if err != nil {
		return false, errors.Wrapf(err, "failed to parse expression %q", expr)
	}
	for _, v := range expression.Vars() {
		if _, ok := Parameters(cpu)[v]; !ok {
			return false, errors.Wrap(lscpu.ErrUnknownField, v)
		}
	}
	// the evaluator panics on some type mismatches
	defer func() {
		if errx := recover(); errx != nil {
			err = errors.Errorf("failed to evaluate %q: %v", expr, errx)
		}
	}()
	value, err := expression.Evaluate(Parameters(cpu))
	if err != nil {
		return false, errors.Wrapf(err, "failed to evaluate %q", expr)
	}
	b, ok := value.(bool)
	if !ok {
		return false, errors.Errorf("expression %q is not boolean, got %s", expr, fmt.Sprint(value))
	}
	return b, nil
}
