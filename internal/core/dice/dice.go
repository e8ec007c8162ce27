// Package dice provides dice-expression evaluation.
//
// Expressions use the "NdM" form: N dice of M sides each. Rolls draw from an
// injected random source so callers control determinism; the package itself
// keeps no state.
package dice

import (
	"math/rand"
	"regexp"
	"strconv"

	apperrors "github.com/louisbranch/airlock/internal/errors"
)

// ErrInvalidExpression indicates a dice expression that does not parse or is
// outside the supported domain (N >= 1, M >= 2).
var ErrInvalidExpression = apperrors.New(apperrors.CodeDiceInvalidExpression, "invalid dice expression")

var exprPattern = regexp.MustCompile(`^(\d+)d(\d+)$`)

// Expression is a parsed dice expression.
type Expression struct {
	Count int
	Sides int
}

// Result captures the individual die results and their sum for one roll of an
// expression.
type Result struct {
	Expression Expression
	Results    []int
	Total      int
}

// Parse parses an "NdM" dice expression.
//
// N must be at least 1 and M at least 2, otherwise ErrInvalidExpression is
// returned. Whitespace is not tolerated; "2d10" parses, " 2d10" does not.
func Parse(expr string) (Expression, error) {
	m := exprPattern.FindStringSubmatch(expr)
	if m == nil {
		return Expression{}, apperrors.WithMetadata(apperrors.CodeDiceInvalidExpression,
			"invalid dice expression: "+expr, map[string]string{"Expression": expr})
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return Expression{}, apperrors.WithMetadata(apperrors.CodeDiceInvalidExpression,
			"invalid dice expression: "+expr, map[string]string{"Expression": expr})
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Expression{}, apperrors.WithMetadata(apperrors.CodeDiceInvalidExpression,
			"invalid dice expression: "+expr, map[string]string{"Expression": expr})
	}

	if count < 1 || sides < 2 {
		return Expression{}, apperrors.WithMetadata(apperrors.CodeDiceInvalidExpression,
			"invalid dice expression: "+expr, map[string]string{"Expression": expr})
	}

	return Expression{Count: count, Sides: sides}, nil
}

// String renders the expression back to its "NdM" form.
func (e Expression) String() string {
	return strconv.Itoa(e.Count) + "d" + strconv.Itoa(e.Sides)
}

// Roll draws every die of the expression from rng and returns the individual
// results plus their sum. Each result is in [1, Sides].
func (e Expression) Roll(rng *rand.Rand) Result {
	results := make([]int, e.Count)
	total := 0
	for i := 0; i < e.Count; i++ {
		value := rng.Intn(e.Sides) + 1
		results[i] = value
		total += value
	}
	return Result{Expression: e, Results: results, Total: total}
}

// RollExpr parses and rolls an expression in one step.
func RollExpr(rng *rand.Rand, expr string) (Result, error) {
	parsed, err := Parse(expr)
	if err != nil {
		return Result{}, err
	}
	return parsed.Roll(rng), nil
}
