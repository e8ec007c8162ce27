// Package check provides roll-under and roll-over check resolution.
//
// A check draws from an injected random source and compares the drawn value
// against a target. Advantage and disadvantage draw twice and keep the more or
// less favorable value; requesting both cancels to a single draw.
//
// The d100 roll-under mode carries two fixed rules: a draw of 90 or higher
// always fails regardless of target, and a double-digit draw (11, 22, ... 99)
// upgrades the outcome to a critical success or critical failure.
package check

import "math/rand"

// Direction selects which side of the target counts as a success.
type Direction int

const (
	// DirectionUnder succeeds when the drawn value is at most the target.
	DirectionUnder Direction = iota
	// DirectionOver succeeds when the drawn value is at least the target.
	DirectionOver
)

func (d Direction) String() string {
	switch d {
	case DirectionUnder:
		return "under"
	case DirectionOver:
		return "over"
	default:
		return "unknown"
	}
}

// Critical flags an upgraded outcome.
type Critical int

const (
	CriticalNone Critical = iota
	CriticalSuccess
	CriticalFailure
)

func (c Critical) String() string {
	switch c {
	case CriticalNone:
		return "none"
	case CriticalSuccess:
		return "critical_success"
	case CriticalFailure:
		return "critical_failure"
	default:
		return "unknown"
	}
}

// Target bounds for roll-under stats. A target outside this range is clamped
// so no check ever becomes automatic.
const (
	TargetMin = 2
	TargetMax = 98
)

// The d100 roll-under mode always fails on draws at or above this value.
const alwaysFailFloor = 90

// Request describes a single check.
type Request struct {
	// Target is the value to roll against, before Modifier.
	Target int
	// Modifier shifts the effective target (e.g. a skill tier bonus).
	Modifier int
	// Direction selects roll-under or roll-over semantics.
	Direction Direction
	// Sides is the check die; 0 defaults to 100.
	Sides int
	// Advantage keeps the more favorable of two draws.
	Advantage bool
	// Disadvantage keeps the less favorable of two draws.
	Disadvantage bool
}

// Result captures a resolved check.
type Result struct {
	// Draws holds every value drawn: one normally, two under advantage or
	// disadvantage.
	Draws []int
	// Draw is the value the check was resolved with.
	Draw int
	// Target is the effective target after modifier and clamping.
	Target int
	// Success reports whether the check passed.
	Success bool
	// Critical flags an upgraded outcome, d100 roll-under mode only.
	Critical Critical
}

// Evaluate resolves a check against rng. It is a pure function of the request
// and the random source; it mutates nothing but the rng position.
func Evaluate(rng *rand.Rand, req Request) Result {
	sides := req.Sides
	if sides == 0 {
		sides = 100
	}

	target := req.Target + req.Modifier
	if req.Direction == DirectionUnder && sides == 100 {
		target = clampTarget(target)
	}

	draws := []int{rng.Intn(sides) + 1}
	if req.Advantage != req.Disadvantage {
		draws = append(draws, rng.Intn(sides)+1)
	}

	drawn := choose(draws, req)

	result := Result{
		Draws:  draws,
		Draw:   drawn,
		Target: target,
	}

	switch req.Direction {
	case DirectionUnder:
		result.Success = drawn <= target
	case DirectionOver:
		result.Success = drawn >= target
	}

	if req.Direction == DirectionUnder && sides == 100 {
		if drawn >= alwaysFailFloor {
			result.Success = false
		}
		if isDoubles(drawn) {
			if result.Success {
				result.Critical = CriticalSuccess
			} else {
				result.Critical = CriticalFailure
			}
		}
	}

	return result
}

// choose picks the kept draw under advantage or disadvantage. With a single
// draw, or when both flags cancel, the first draw is used.
func choose(draws []int, req Request) int {
	if len(draws) == 1 {
		return draws[0]
	}

	lower, higher := draws[0], draws[1]
	if lower > higher {
		lower, higher = higher, lower
	}

	favorLow := req.Direction == DirectionUnder
	if req.Advantage {
		if favorLow {
			return lower
		}
		return higher
	}
	if favorLow {
		return higher
	}
	return lower
}

// isDoubles reports whether a d100 draw has matching digits (11, 22, ... 99).
// 100 is not doubles.
func isDoubles(draw int) bool {
	return draw < 100 && draw >= 11 && draw%11 == 0
}

func clampTarget(target int) int {
	if target < TargetMin {
		return TargetMin
	}
	if target > TargetMax {
		return TargetMax
	}
	return target
}
