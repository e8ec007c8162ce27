package dice

import (
	"errors"
	"math/rand"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    Expression
		wantErr bool
	}{
		{name: "single d10", expr: "1d10", want: Expression{Count: 1, Sides: 10}},
		{name: "multiple dice", expr: "3d6", want: Expression{Count: 3, Sides: 6}},
		{name: "percentile", expr: "1d100", want: Expression{Count: 1, Sides: 100}},
		{name: "zero dice", expr: "0d6", wantErr: true},
		{name: "one-sided die", expr: "2d1", wantErr: true},
		{name: "missing count", expr: "d6", wantErr: true},
		{name: "missing sides", expr: "2d", wantErr: true},
		{name: "modifier not supported", expr: "2d6+3", wantErr: true},
		{name: "garbage", expr: "fireball", wantErr: true},
		{name: "empty", expr: "", wantErr: true},
		{name: "whitespace", expr: " 2d10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExpression) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidExpression", tt.expr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestRoll_ResultsInRangeAndSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	exprs := []Expression{
		{Count: 1, Sides: 10},
		{Count: 2, Sides: 10},
		{Count: 4, Sides: 6},
		{Count: 1, Sides: 100},
	}

	for _, expr := range exprs {
		for i := 0; i < 100; i++ {
			result := expr.Roll(rng)
			if len(result.Results) != expr.Count {
				t.Fatalf("%s: got %d results, want %d", expr, len(result.Results), expr.Count)
			}
			sum := 0
			for _, v := range result.Results {
				if v < 1 || v > expr.Sides {
					t.Fatalf("%s: result %d out of range [1,%d]", expr, v, expr.Sides)
				}
				sum += v
			}
			if sum != result.Total {
				t.Fatalf("%s: total %d does not match sum %d", expr, result.Total, sum)
			}
		}
	}
}

func TestRoll_DeterministicBySeed(t *testing.T) {
	expr := Expression{Count: 3, Sides: 20}

	first := expr.Roll(rand.New(rand.NewSource(7)))
	second := expr.Roll(rand.New(rand.NewSource(7)))

	if first.Total != second.Total {
		t.Fatalf("same seed produced different totals: %d vs %d", first.Total, second.Total)
	}
	for i := range first.Results {
		if first.Results[i] != second.Results[i] {
			t.Fatalf("same seed produced different results at %d: %d vs %d",
				i, first.Results[i], second.Results[i])
		}
	}
}

func TestRollExpr(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	result, err := RollExpr(rng, "2d10")
	if err != nil {
		t.Fatalf("RollExpr() unexpected error: %v", err)
	}
	if len(result.Results) != 2 {
		t.Errorf("RollExpr() got %d results, want 2", len(result.Results))
	}

	if _, err := RollExpr(rng, "nope"); !errors.Is(err, ErrInvalidExpression) {
		t.Errorf("RollExpr() error = %v, want ErrInvalidExpression", err)
	}
}
