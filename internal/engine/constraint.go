package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OrlandoBitencourt/banderole/internal/domain"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// matchConstraint evaluates a single constraint against the context.
// Constraints are applied centrally, before any strategy predicate
// runs. A missing context field does not satisfy the constraint;
// Inverted flips the final outcome, including the missing-field case.
func (e *Engine) matchConstraint(c domain.Constraint, ctx domain.Context) bool {
	matched := e.constraintHolds(c, ctx)
	if c.Inverted {
		return !matched
	}
	return matched
}

func (e *Engine) constraintHolds(c domain.Constraint, ctx domain.Context) bool {
	value, ok := ctx.Field(c.ContextName)
	if !ok && c.ContextName == domain.FieldCurrentTime {
		// Date constraints compare against the clock when the caller
		// did not pin a time on the context.
		value, ok = ctx.Now().Format(time.RFC3339), true
	}
	if !ok {
		return false
	}

	switch c.Operator {
	case domain.OperatorIn:
		return containsValue(c, value)
	case domain.OperatorNotIn:
		return !containsValue(c, value)
	case domain.OperatorStrContains:
		return matchStrings(c, value, strings.Contains)
	case domain.OperatorStrStartsWith:
		return matchStrings(c, value, strings.HasPrefix)
	case domain.OperatorStrEndsWith:
		return matchStrings(c, value, strings.HasSuffix)
	case domain.OperatorStrMatches:
		return e.matchPattern(value, c.Value)
	case domain.OperatorNumEq, domain.OperatorNumGT, domain.OperatorNumGTE,
		domain.OperatorNumLT, domain.OperatorNumLTE:
		return compareNumbers(c.Operator, value, c.Value)
	case domain.OperatorDateAfter, domain.OperatorDateBefore:
		return compareDates(c.Operator, value, c.Value)
	default:
		// Unknown operator fails closed
		return false
	}
}

func containsValue(c domain.Constraint, value string) bool {
	for _, candidate := range c.Values {
		if c.CaseInsensitive {
			if strings.EqualFold(candidate, value) {
				return true
			}
			continue
		}
		if candidate == value {
			return true
		}
	}
	return false
}

func matchStrings(c domain.Constraint, value string, match func(s, substr string) bool) bool {
	if c.CaseInsensitive {
		value = strings.ToLower(value)
	}
	for _, candidate := range c.Values {
		if c.CaseInsensitive {
			candidate = strings.ToLower(candidate)
		}
		if match(value, candidate) {
			return true
		}
	}
	return false
}

// matchPattern evaluates a STR_MATCHES constraint through the
// expression engine's regex operator, caching the compiled program.
func (e *Engine) matchPattern(value, pattern string) bool {
	program, ok := e.cachedProgram(pattern, func() (*vm.Program, error) {
		source := fmt.Sprintf(`value matches %q`, pattern)
		return expr.Compile(source, expr.Env(map[string]interface{}{"value": ""}))
	})
	if !ok {
		return false
	}

	result, err := expr.Run(program, map[string]interface{}{"value": value})
	if err != nil {
		return false
	}
	matched, ok := result.(bool)
	return ok && matched
}

func compareNumbers(op domain.Operator, value, target string) bool {
	a, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(target), 64)
	if err != nil {
		return false
	}

	switch op {
	case domain.OperatorNumEq:
		return a == b
	case domain.OperatorNumGT:
		return a > b
	case domain.OperatorNumGTE:
		return a >= b
	case domain.OperatorNumLT:
		return a < b
	case domain.OperatorNumLTE:
		return a <= b
	}
	return false
}

func compareDates(op domain.Operator, value, target string) bool {
	a, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return false
	}
	b, err := time.Parse(time.RFC3339, strings.TrimSpace(target))
	if err != nil {
		return false
	}

	switch op {
	case domain.OperatorDateAfter:
		return a.After(b)
	case domain.OperatorDateBefore:
		return a.Before(b)
	}
	return false
}
